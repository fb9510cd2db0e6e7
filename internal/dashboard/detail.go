package dashboard

import (
	"context"
	"strings"

	"expenseboard/internal/core"
	"expenseboard/internal/expenseapi"
	"expenseboard/internal/icons"
	applog "expenseboard/internal/log"
)

// DetailData is the rendered detail view of one expense.
type DetailData struct {
	Expense   core.Expense
	Icon      icons.Icon
	Amount    string
	CreatedAt string
}

type DetailLoader struct {
	getter ExpenseGetter
	logger *applog.Logger
}

func NewDetailLoader(getter ExpenseGetter, logger *applog.Logger) *DetailLoader {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DetailLoader{getter: getter, logger: logger.WithComponent(applog.ComponentDashboard)}
}

// Load fetches the expense with the given id.
func (d *DetailLoader) Load(ctx context.Context, id string) State[DetailData] {
	if strings.TrimSpace(id) == "" {
		return Failed[DetailData](ReasonNotFound, core.ErrEmptyID)
	}

	e, err := d.getter.GetExpense(ctx, id)
	if err != nil {
		if reason := cancelled(err); reason != "" {
			return Failed[DetailData](reason, err)
		}
		if expenseapi.IsNotFound(err) {
			d.logger.InfoContext(ctx, "Expense not found", applog.FieldExpenseID, id)
			return Failed[DetailData](ReasonNotFound, err)
		}
		fields := applog.NewFields()
		fields[applog.FieldExpenseID] = id
		fields["error_type"] = expenseapi.ErrorType(err)
		applog.NewStructuredLogger(d.logger).LogError(ctx, "Failed to fetch expense", err, applog.OpRead, fields)
		return Failed[DetailData](ReasonFetch, err)
	}

	return Ready(DetailData{
		Expense:   e,
		Icon:      icons.ForName(icons.FromContext(ctx), e.Category.Name),
		Amount:    e.Amount.Format(),
		CreatedAt: core.FormatTimestamp(e.CreatedAt),
	})
}
