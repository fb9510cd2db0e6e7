package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"expenseboard/internal/core"
	"expenseboard/internal/dashboard"
)

var (
	boldGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	boldYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	faint      = color.New(color.Faint).SprintFunc()
)

// RenderList prints one page of expenses as a table with a paging footer.
func RenderList(w io.Writer, data dashboard.ListData) error {
	if summary := filterSummary(data); summary != "" {
		fmt.Fprintln(w, faint(summary))
	}
	if data.Filter.RangeInvalid() {
		fmt.Fprintln(w, boldYellow("Minimum price is above the maximum."))
	}

	if len(data.Cards) == 0 {
		fmt.Fprintln(w, "No expenses match these filters.")
		return nil
	}

	rows := pterm.TableData{{"ID", "Name", "Category", "Amount"}}
	for _, c := range data.Cards {
		rows = append(rows, []string{c.ID, c.Name, c.Category, "$ " + c.Amount})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("render expense table: %w", err)
	}
	fmt.Fprintln(w, table)

	p := data.Paging
	fmt.Fprintf(w, "Page %s of %d (%d expenses)\n", boldCyan(p.Page), p.PageCount, p.ItemCount)
	return nil
}

func filterSummary(data dashboard.ListData) string {
	if !data.Filter.Active() {
		return ""
	}
	var parts []string
	if ids := data.Filter.CategoryIDs; len(ids) > 0 {
		parts = append(parts, "categories "+strings.Join(ids, ", "))
	}
	if v := data.Filter.MinInput(); v != "" {
		parts = append(parts, "min "+v)
	}
	if v := data.Filter.MaxInput(); v != "" {
		parts = append(parts, "max "+v)
	}
	return "Filters: " + strings.Join(parts, "; ")
}

// RenderDetail prints a single expense as a two column table.
func RenderDetail(w io.Writer, data dashboard.DetailData) error {
	description := data.Expense.Description
	if description == "" {
		description = "-"
	}
	rows := pterm.TableData{
		{"ID", data.Expense.ID},
		{"Name", data.Expense.Name},
		{"Category", core.ParseCategoryName(data.Expense.Category.Name).String()},
		{"Amount", "$ " + data.Amount},
		{"Created", data.CreatedAt},
		{"Description", description},
	}
	table, err := pterm.DefaultTable.WithBoxed().WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("render expense: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}

// RenderTotal prints the all-time total.
func RenderTotal(w io.Writer, data dashboard.TotalData) {
	fmt.Fprintf(w, "Current Expenses: %s\n", boldGreen("$ "+data.Formatted))
}

// RenderCategories prints the category enumeration with each icon asset.
func RenderCategories(w io.Writer, options []dashboard.CategoryOption) error {
	rows := pterm.TableData{{"ID", "Name", "Icon"}}
	for _, o := range options {
		rows = append(rows, []string{o.ID, o.Name, o.Icon.Path})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("render categories: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}
