package dashboard

import (
	"context"

	"expenseboard/internal/core"
	"expenseboard/internal/expenseapi"
	applog "expenseboard/internal/log"
)

// TotalData is the all-time expense sum.
type TotalData struct {
	Amount    core.Money
	Formatted string
}

// TotalLoader fetches the unfiltered total. It is independent of the list
// and never delays it.
type TotalLoader struct {
	fetcher TotalFetcher
	logger  *applog.Logger
}

func NewTotalLoader(fetcher TotalFetcher, logger *applog.Logger) *TotalLoader {
	if logger == nil {
		logger = applog.Discard()
	}
	return &TotalLoader{fetcher: fetcher, logger: logger.WithComponent(applog.ComponentDashboard)}
}

func (t *TotalLoader) Load(ctx context.Context) State[TotalData] {
	total, err := t.fetcher.Total(ctx)
	if err != nil {
		if reason := cancelled(err); reason != "" {
			return Failed[TotalData](reason, err)
		}
		fields := applog.NewFields()
		fields["error_type"] = expenseapi.ErrorType(err)
		applog.NewStructuredLogger(t.logger).LogError(ctx, "Failed to fetch expense total", err, applog.OpTotal, fields)
		return Failed[TotalData](ReasonFetch, err)
	}
	return Ready(TotalData{Amount: total, Formatted: total.Format()})
}
