package dashboard

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"expenseboard/internal/core"
)

var errBoom = errors.New("boom")

// fakeAPI serves a fixed page and per-id details.
type fakeAPI struct {
	mu         sync.Mutex
	page       core.ExpensePage
	listErr    error
	details    map[string]core.Expense
	detailErr  map[string]error
	delay      map[string]time.Duration
	categories []core.Category
	catErr     error
	total      core.Money
	totalErr   error

	gotParams   url.Values
	detailOrder []string
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	catCalls    atomic.Int32
}

func (f *fakeAPI) ListExpenses(_ context.Context, params url.Values) (core.ExpensePage, error) {
	f.mu.Lock()
	f.gotParams = params
	f.mu.Unlock()
	return f.page, f.listErr
}

func (f *fakeAPI) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	f.mu.Lock()
	f.detailOrder = append(f.detailOrder, id)
	f.mu.Unlock()

	if d := f.delay[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return core.Expense{}, ctx.Err()
		}
	}
	if err := f.detailErr[id]; err != nil {
		return core.Expense{}, err
	}
	e, ok := f.details[id]
	if !ok {
		return core.Expense{}, errors.New("unknown id " + id)
	}
	return e, nil
}

func (f *fakeAPI) ListCategories(context.Context) ([]core.Category, error) {
	f.catCalls.Add(1)
	return f.categories, f.catErr
}

func (f *fakeAPI) Total(context.Context) (core.Money, error) {
	return f.total, f.totalErr
}

func threeItemAPI() *fakeAPI {
	items := []core.Expense{
		{ID: "a", Amount: core.Money{Cents: 123450}, Category: core.Category{Name: "Food"}},
		{ID: "b", Amount: core.Money{Cents: 500}, Category: core.Category{Name: "Housing"}},
		{ID: "c", Amount: core.Money{Cents: 99}, Category: core.Category{Name: "Bills"}},
	}
	return &fakeAPI{
		page: core.ExpensePage{
			Items:  items,
			Paging: core.Paging{Page: 1, Limit: 3, ItemCount: 3, PageCount: 1},
		},
		details: map[string]core.Expense{
			"a": {ID: "a", Name: "Groceries"},
			"b": {ID: "b", Name: "Rent"},
			"c": {ID: "c", Name: "Phone"},
		},
	}
}
