package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Transportation   CategoryName = "Transportation"
	Food             CategoryName = "Food"
	Housing          CategoryName = "Housing"
	PersonalSpending CategoryName = "Personal Spending"

	// CategoryUnknown is any name the API returns outside the known set.
	CategoryUnknown CategoryName = ""
)

type (
	CategoryName string

	Money struct {
		Cents int64
	}

	Category struct {
		ID   string
		Name string
	}

	Expense struct {
		ID          string
		Name        string
		Amount      Money
		CreatedAt   time.Time
		Description string
		Category    Category
	}

	// Paging is the pagination envelope returned by the expense API. It is
	// never computed locally.
	Paging struct {
		Page            int // 1-based
		Limit           int
		ItemCount       int
		PageCount       int
		HasPreviousPage bool
		HasNextPage     bool
	}

	// ExpensePage is one page of the expense list as served by the API.
	ExpensePage struct {
		Items  []Expense
		Paging Paging
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyID       = errors.New("empty expense id")
)

// CategoryNames returns the closed set of categories in display order.
func CategoryNames() []CategoryName {
	return []CategoryName{Transportation, Food, Housing, PersonalSpending}
}

// ParseCategoryName maps an API category name onto the closed set.
// Unknown names yield CategoryUnknown.
func ParseCategoryName(s string) CategoryName {
	name := CategoryName(strings.TrimSpace(s))
	if name.IsValid() {
		return name
	}
	return CategoryUnknown
}

// IsValid reports whether the name is one of the known categories.
func (c CategoryName) IsValid() bool {
	switch c {
	case Transportation, Food, Housing, PersonalSpending:
		return true
	default:
		return false
	}
}

func (c CategoryName) String() string {
	if c == CategoryUnknown {
		return "Unknown"
	}
	return string(c)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	return e.Amount.Validate()
}
