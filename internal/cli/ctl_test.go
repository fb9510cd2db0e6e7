package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenseboard/internal/config"
	"expenseboard/internal/core"
	"expenseboard/internal/dashboard"
	"expenseboard/internal/expenseapi"
	applog "expenseboard/internal/log"
)

type fakeAPI struct {
	mu        sync.Mutex
	gotParams url.Values
	detailErr error
}

func (f *fakeAPI) ListExpenses(_ context.Context, params url.Values) (core.ExpensePage, error) {
	f.mu.Lock()
	f.gotParams = params
	f.mu.Unlock()
	return core.ExpensePage{
		Items: []core.Expense{
			{ID: "a", Amount: core.Money{Cents: 123450}, Category: core.Category{Name: "Food"}},
			{ID: "b", Amount: core.Money{Cents: 999}, Category: core.Category{Name: "Housing"}},
		},
		Paging: core.Paging{Page: 2, Limit: 2, ItemCount: 9, PageCount: 5, HasPreviousPage: true, HasNextPage: true},
	}, nil
}

func (f *fakeAPI) GetExpense(_ context.Context, id string) (core.Expense, error) {
	if f.detailErr != nil {
		return core.Expense{}, f.detailErr
	}
	if id == "missing" {
		return core.Expense{}, &expenseapi.StatusError{Code: 404, Path: "/expenses/missing"}
	}
	return core.Expense{
		ID:       id,
		Name:     "Groceries " + id,
		Amount:   core.Money{Cents: 123450},
		Category: core.Category{Name: "Food"},
	}, nil
}

func (f *fakeAPI) ListCategories(context.Context) ([]core.Category, error) {
	return []core.Category{{ID: "1", Name: "Food"}, {ID: "4", Name: "Personal Spending"}}, nil
}

func (f *fakeAPI) Total(context.Context) (core.Money, error) {
	return core.Money{Cents: 123450}, nil
}

func runCtl(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()
	var gotCfg *config.Config
	app := NewCtlApp("test", func(cfg *config.Config, _ *applog.Logger) (dashboard.API, error) {
		gotCfg = cfg
		return api, nil
	})
	var out bytes.Buffer
	cmd := app.Command()
	cmd.SetArgs(append(args, "--plain"))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := app.Execute(context.Background())
	if err == nil {
		require.NotNil(t, gotCfg)
	}
	return out.String(), err
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		min, max   string
		page       int
		want       string
		wantErr    bool
	}{
		{name: "empty", page: 1, want: ""},
		{name: "categories joined", categories: []string{"1", "3"}, page: 1, want: "category_id=1%2C3"},
		{name: "range kept raw", min: "100", max: "50", page: 1, want: "max_price=50&min_price=100"},
		{name: "page", page: 3, want: "page=3"},
		{name: "blank range dropped", min: "  ", page: 1, want: ""},
		{name: "bad page", page: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ListQuery(tt.categories, tt.min, tt.max, tt.page)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Encode())
		})
	}
}

func TestListCommand(t *testing.T) {
	api := &fakeAPI{}
	out, err := runCtl(t, api, "list", "--category", "1,2", "--min", "10", "--page", "2")
	require.NoError(t, err)

	assert.Equal(t, "2", api.gotParams.Get("page"))
	assert.Equal(t, "1,2", api.gotParams.Get("category_id"))
	assert.Equal(t, "10", api.gotParams.Get("min_price"))
	assert.Empty(t, api.gotParams.Get("max_price"))

	assert.Contains(t, out, "Groceries a")
	assert.Contains(t, out, "$ 1.234,50")
	assert.Contains(t, out, "$ 9,99")
	assert.Contains(t, out, "Filters: categories 1, 2; min 10")
	assert.Contains(t, out, "Page 2 of 5 (9 expenses)")
}

func TestListCommandEnrichmentFailure(t *testing.T) {
	api := &fakeAPI{detailErr: errors.New("boom")}
	out, err := runCtl(t, api, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Some expenses could not be loaded")
	assert.NotContains(t, out, "Groceries")
}

func TestShowCommand(t *testing.T) {
	out, err := runCtl(t, &fakeAPI{}, "show", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries a")
	assert.Contains(t, out, "$ 1.234,50")
	assert.Contains(t, out, "Food")

	_, err = runCtl(t, &fakeAPI{}, "show", "missing")
	require.Error(t, err)
	assert.True(t, expenseapi.IsNotFound(err))
}

func TestTotalAndCategoriesCommands(t *testing.T) {
	out, err := runCtl(t, &fakeAPI{}, "total")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Expenses: $ 1.234,50")

	out, err = runCtl(t, &fakeAPI{}, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Personal Spending")
	assert.Contains(t, out, "/static/icons/beer.svg")
}

func TestProfileAndFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("EXPENSE_API_BASE_URL", "http://env.test")
	t.Setenv("LOG_LEVEL", "error")
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("api_base_url: http://profile.test\ntimeout: 3s\nlog_level: debug\n"), 0o600))

	var got *config.Config
	app := NewCtlApp("test", func(cfg *config.Config, _ *applog.Logger) (dashboard.API, error) {
		got = cfg
		return &fakeAPI{}, nil
	})
	cmd := app.Command()
	cmd.SetArgs([]string{"total", "--plain", "-C", profile, "--retries", "2"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, app.Execute(context.Background()))

	assert.Equal(t, "http://profile.test", got.APIBaseURL)
	assert.Equal(t, "3s", got.APITimeout.String())
	assert.Equal(t, 2, got.APIRetries)
	assert.Equal(t, "debug", got.LogLevel)

	cmd.SetArgs([]string{"total", "--plain", "-C", profile, "--api", "http://flag.test", "--log-level", "warn"})
	require.NoError(t, app.Execute(context.Background()))
	assert.Equal(t, "http://flag.test", got.APIBaseURL)
	assert.Equal(t, "warn", got.LogLevel)
}

func TestLogLevelFollowsEnvironmentWithoutFlag(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	var got *config.Config
	app := NewCtlApp("test", func(cfg *config.Config, _ *applog.Logger) (dashboard.API, error) {
		got = cfg
		return &fakeAPI{}, nil
	})
	cmd := app.Command()
	cmd.SetArgs([]string{"total", "--plain"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, app.Execute(context.Background()))
	assert.Equal(t, "error", got.LogLevel)
}

func TestInvalidConfigurationFails(t *testing.T) {
	_, err := runCtl(t, &fakeAPI{}, "total", "--api", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
