package dashboard

import (
	"context"
	"net/url"

	"expenseboard/internal/core"
)

type ExpenseLister interface {
	ListExpenses(ctx context.Context, params url.Values) (core.ExpensePage, error)
}

type ExpenseGetter interface {
	GetExpense(ctx context.Context, id string) (core.Expense, error)
}

type CategoryLister interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
}

type TotalFetcher interface {
	Total(ctx context.Context) (core.Money, error)
}

// API is everything the dashboard reads from the expense service.
type API interface {
	ExpenseLister
	ExpenseGetter
	CategoryLister
	TotalFetcher
}
