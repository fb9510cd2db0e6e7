package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"expenseboard/internal/core"
	"expenseboard/internal/expenseapi"
	"expenseboard/internal/filter"
	"expenseboard/internal/icons"
	applog "expenseboard/internal/log"
)

// DefaultEnrichConcurrency bounds the per-item detail requests of one page.
const DefaultEnrichConcurrency = 4

// Card is one rendered expense in the list.
type Card struct {
	ID       string
	Name     string
	Category string
	Icon     icons.Icon
	Amount   string
}

// ListData is everything the list partial renders.
type ListData struct {
	Filter filter.State
	Page   int
	Cards  []Card
	Paging core.Paging
	Pager  Pager
}

// ListLoader fetches one page of expenses and resolves each item's display
// name through the detail endpoint.
type ListLoader struct {
	lister      ExpenseLister
	getter      ExpenseGetter
	concurrency int
	logger      *applog.Logger
}

type ListLoaderOption func(*ListLoader)

// WithEnrichConcurrency sets how many detail requests run at once. A limit of
// one issues them strictly in list order.
func WithEnrichConcurrency(n int) ListLoaderOption {
	return func(l *ListLoader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

func WithListLogger(logger *applog.Logger) ListLoaderOption {
	return func(l *ListLoader) {
		if logger != nil {
			l.logger = logger.WithComponent(applog.ComponentDashboard)
		}
	}
}

func NewListLoader(lister ExpenseLister, getter ExpenseGetter, opts ...ListLoaderOption) *ListLoader {
	l := &ListLoader{
		lister:      lister,
		getter:      getter,
		concurrency: DefaultEnrichConcurrency,
		logger:      applog.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the filter from q, fetches page and enriches every item. The
// page is all or nothing: if any enrichment fails no cards are returned.
func (l *ListLoader) Load(ctx context.Context, q url.Values, page int) State[ListData] {
	if page < 1 {
		page = 1
	}
	state := filter.Parse(q)
	sl := applog.NewStructuredLogger(l.logger)

	result, err := l.lister.ListExpenses(ctx, filter.APIParams(q, page))
	if err != nil {
		if reason := cancelled(err); reason != "" {
			return Failed[ListData](reason, err)
		}
		fields := applog.NewFields().WithFilter(state.CategoryIDs, state.MinPrice, state.MaxPrice, page)
		fields["error_type"] = expenseapi.ErrorType(err)
		sl.LogError(ctx, "Failed to fetch expense page", err, applog.OpList, fields)
		return Failed[ListData](ReasonFetch, err)
	}

	items, err := l.enrich(ctx, result.Items)
	if err != nil {
		if reason := cancelled(err); reason != "" {
			return Failed[ListData](reason, err)
		}
		fields := applog.NewFields().WithFilter(state.CategoryIDs, state.MinPrice, state.MaxPrice, page)
		fields["error_type"] = expenseapi.ErrorType(err)
		sl.LogError(ctx, "Failed to enrich expense page", err, applog.OpEnrich, fields)
		return Failed[ListData](ReasonEnrichment, err)
	}

	provider := icons.FromContext(ctx)
	cards := make([]Card, 0, len(items))
	for _, e := range items {
		cards = append(cards, newCard(provider, e))
	}

	sl.LogListLoaded(ctx, state.CategoryIDs, state.MinPrice, state.MaxPrice, page, len(cards))

	return Ready(ListData{
		Filter: state,
		Page:   page,
		Cards:  cards,
		Paging: result.Paging,
		Pager:  BuildPager(result.Paging.Page, result.Paging.PageCount, q),
	})
}

// enrich replaces each item's name with the one served by the detail
// endpoint. Results keep the input order. The first failure cancels the
// requests still in flight.
func (l *ListLoader) enrich(ctx context.Context, items []core.Expense) ([]core.Expense, error) {
	out := make([]core.Expense, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			detail, err := l.getter.GetExpense(gctx, item.ID)
			if err != nil {
				return fmt.Errorf("enrich expense %s: %w", item.ID, err)
			}
			item.Name = detail.Name
			out[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Report the caller going away rather than the error it caused.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return out, nil
}

func newCard(p icons.Provider, e core.Expense) Card {
	return Card{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category.Name,
		Icon:     icons.ForName(p, e.Category.Name),
		Amount:   e.Amount.Format(),
	}
}

// cancelled returns ReasonCancelled when err stems from the caller going
// away, which is not worth an error log.
func cancelled(err error) Reason {
	if errors.Is(err, context.Canceled) {
		return ReasonCancelled
	}
	return ""
}
