package dashboard

import (
	"context"
	"time"

	"expenseboard/internal/cache"
	"expenseboard/internal/core"
	"expenseboard/internal/expenseapi"
	"expenseboard/internal/icons"
	applog "expenseboard/internal/log"
)

const categoriesKey = "categories"

// CategoryOption is one checkbox of the filter panel.
type CategoryOption struct {
	ID   string
	Name string
	Icon icons.Icon
}

// CategoryLoader serves the category list from a short-lived cache.
type CategoryLoader struct {
	lister CategoryLister
	cache  *cache.LRUCache[[]core.Category]
	logger *applog.Logger
}

func NewCategoryLoader(lister CategoryLister, ttl time.Duration, logger *applog.Logger) *CategoryLoader {
	if logger == nil {
		logger = applog.Discard()
	}
	return &CategoryLoader{
		lister: lister,
		cache:  cache.NewLRUCache[[]core.Category](1, ttl),
		logger: logger.WithComponent(applog.ComponentDashboard),
	}
}

// Cache exposes the underlying cache for periodic cleanup and metrics.
func (c *CategoryLoader) Cache() *cache.LRUCache[[]core.Category] {
	return c.cache
}

func (c *CategoryLoader) Load(ctx context.Context) State[[]CategoryOption] {
	categories, err := c.cache.GetOrLoad(ctx, categoriesKey, c.lister.ListCategories)
	if err != nil {
		if reason := cancelled(err); reason != "" {
			return Failed[[]CategoryOption](reason, err)
		}
		fields := applog.NewFields()
		fields["error_type"] = expenseapi.ErrorType(err)
		applog.NewStructuredLogger(c.logger).LogError(ctx, "Failed to fetch categories", err, applog.OpCategory, fields)
		return Failed[[]CategoryOption](ReasonFetch, err)
	}

	provider := icons.FromContext(ctx)
	options := make([]CategoryOption, 0, len(categories))
	for _, cat := range categories {
		options = append(options, CategoryOption{
			ID:   cat.ID,
			Name: cat.Name,
			Icon: icons.ForName(provider, cat.Name),
		})
	}
	return Ready(options)
}
