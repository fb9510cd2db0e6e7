package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenseboard/internal/core"
	"expenseboard/internal/expenseapi"
)

func TestDetailLoaderReady(t *testing.T) {
	api := &fakeAPI{details: map[string]core.Expense{
		"x1": {
			ID:          "x1",
			Name:        "Train ticket",
			Amount:      core.Money{Cents: 4500000},
			CreatedAt:   time.Date(2023, 8, 2, 3, 5, 0, 0, time.UTC),
			Description: "Jakarta to Bandung",
			Category:    core.Category{Name: "Transportation"},
		},
	}}

	state := NewDetailLoader(api, nil).Load(context.Background(), "x1")
	require.True(t, state.IsReady())
	assert.Equal(t, "45.000,00", state.Data.Amount)
	assert.Equal(t, "02 Agt 2023, 10:05 WIB", state.Data.CreatedAt)
	assert.Equal(t, "/static/icons/transportation.svg", state.Data.Icon.Path)
}

func TestDetailLoaderFailures(t *testing.T) {
	api := &fakeAPI{detailErr: map[string]error{
		"gone": &expenseapi.StatusError{Code: 404, Path: "/expenses/gone"},
		"down": fmt.Errorf("get: %w", expenseapi.ErrTransport),
	}}
	loader := NewDetailLoader(api, nil)

	assert.Equal(t, ReasonNotFound, loader.Load(context.Background(), "gone").Reason)
	assert.Equal(t, ReasonFetch, loader.Load(context.Background(), "down").Reason)
	assert.Equal(t, ReasonNotFound, loader.Load(context.Background(), " ").Reason)
}

func TestTotalLoader(t *testing.T) {
	api := &fakeAPI{total: core.Money{Cents: 123450}}
	state := NewTotalLoader(api, nil).Load(context.Background())
	require.True(t, state.IsReady())
	assert.Equal(t, "1.234,50", state.Data.Formatted)

	api.totalErr = errBoom
	failed := NewTotalLoader(api, nil).Load(context.Background())
	assert.True(t, failed.IsFailed())
	assert.Equal(t, ReasonFetch, failed.Reason)
}

func TestCategoryLoaderCaches(t *testing.T) {
	api := &fakeAPI{categories: []core.Category{{ID: "1", Name: "Food"}, {ID: "2", Name: "Housing"}}}
	loader := NewCategoryLoader(api, time.Minute, nil)

	for i := 0; i < 3; i++ {
		state := loader.Load(context.Background())
		require.True(t, state.IsReady())
		require.Len(t, state.Data, 2)
		assert.Equal(t, "/static/icons/house.svg", state.Data[1].Icon.Path)
	}
	assert.Equal(t, int32(1), api.catCalls.Load())
	assert.Equal(t, uint64(2), loader.Cache().Stats().Hits)
}

func TestCategoryLoaderDoesNotCacheFailure(t *testing.T) {
	api := &fakeAPI{catErr: errBoom}
	loader := NewCategoryLoader(api, time.Minute, nil)

	assert.True(t, loader.Load(context.Background()).IsFailed())

	api.catErr = nil
	api.categories = []core.Category{{ID: "1", Name: "Food"}}
	assert.True(t, loader.Load(context.Background()).IsReady())
	assert.Equal(t, int32(2), api.catCalls.Load())
}

func TestBackTarget(t *testing.T) {
	tests := []struct {
		referer, host, want string
	}{
		{"", "dash.local", "/"},
		{"http://dash.local/?page=2&category_id=1", "dash.local", "/?page=2&category_id=1"},
		{"https://dash.local:8443/", "dash.local:8443", "/"},
		{"https://elsewhere.com/expenses", "dash.local", "/"},
		{"javascript:alert(1)", "dash.local", "/"},
		{"::", "dash.local", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BackTarget(tt.referer, tt.host), tt.referer)
	}
}

func TestStatePhases(t *testing.T) {
	assert.Equal(t, PhaseIdle, Idle[int]().Phase)
	assert.True(t, Loading[int]().IsLoading())
	assert.Equal(t, "ready", Ready(1).Phase.String())

	failed := Failed[int](ReasonEnrichment, errBoom)
	assert.True(t, failed.IsFailed())
	assert.True(t, errors.Is(failed.Err, errBoom))
	assert.Contains(t, failed.Message(), "could not be loaded")
	assert.Empty(t, Ready(1).Message())
}
