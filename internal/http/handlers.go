package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"expenseboard/internal/dashboard"
	"expenseboard/internal/filter"
	applog "expenseboard/internal/log"
)

const readyTimeout = 5 * time.Second

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", indexView{
		Query: filter.Encode(viewQuery(r)),
	})
}

// handleExpenseList renders the list partial for the filters and page in
// the query.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	keep := r.URL.Query().Get(keepParam) == "1"
	q := viewQuery(r)

	state := s.list.Load(r.Context(), q, filter.PageFromQuery(q))
	if state.IsFailed() {
		if state.Reason == dashboard.ReasonCancelled {
			// A newer request replaced this one; nobody reads the answer.
			return
		}
		s.appMetrics.listFailed(state.Reason)
		if keep && isHTMX(r) {
			atomic.AddInt64(&s.appMetrics.keptPages, 1)
			NewHTMXResponse().
				KeepContent().
				TriggerErrorNotification(state.Message()).
				Write(w)
			return
		}
	}

	s.render(w, r, "expense_list", listView{State: state, Query: filter.Encode(q)})
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	state := s.total.Load(r.Context())
	if state.IsFailed() {
		if state.Reason == dashboard.ReasonCancelled {
			return
		}
		atomic.AddInt64(&s.appMetrics.totalFailures, 1)
	}
	s.render(w, r, "total_panel", state)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	q := viewQuery(r)
	categories := s.categories.Load(r.Context())
	if categories.IsFailed() {
		if categories.Reason == dashboard.ReasonCancelled {
			return
		}
		atomic.AddInt64(&s.appMetrics.categoryFailures, 1)
	}
	s.render(w, r, "filter_panel", filterView{
		Categories: categories,
		Filter:     filter.Parse(q),
		Query:      filter.Encode(q),
	})
}

// handleFilterApply turns one filter edit into a navigation. htmx names the
// edited control in HX-Trigger-Name, and a plain form submission applies
// every control.
func (s *Server) handleFilterApply(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentFilter)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(r.Context(), "Invalid filter form", applog.FieldError, err.Error())
		BadRequestError("Invalid filter form.").Write(w)
		return
	}

	current, err := currentQuery(r)
	if err != nil {
		logger.WarnContext(r.Context(), "Discarding unparseable filter query", applog.FieldError, err.Error())
		current = url.Values{}
	}

	field := ""
	if isHTMX(r) {
		field = r.Header.Get("HX-Trigger-Name")
	}
	next, err := filter.ApplyEdit(current, field, r.Form)
	if err != nil {
		logger.WarnContext(r.Context(), "Rejected filter edit", "field", field, applog.FieldError, err.Error())
		BadRequestError("Unknown filter.").Write(w)
		return
	}

	target := filter.Navigate(&url.URL{Path: "/"}, next)
	logger.DebugContext(r.Context(), "Filter applied", "field", field, "location", target)

	if isHTMX(r) {
		NewHTMXResponse().Location(target).Write(w)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// currentQuery returns the query of the page the edit came from. htmx reports
// the address bar in HX-Current-URL, which follows pager navigation; the q
// field is only a snapshot from when the panel rendered and serves plain
// form submissions.
func currentQuery(r *http.Request) (url.Values, error) {
	if isHTMX(r) {
		if raw := r.Header.Get("HX-Current-URL"); raw != "" {
			u, err := url.Parse(raw)
			if err != nil {
				return nil, err
			}
			return url.ParseQuery(u.RawQuery)
		}
	}
	return url.ParseQuery(r.Form.Get("q"))
}

func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "detail.html", detailPageView{
		Title: "Expense",
		ID:    r.PathValue("slug"),
		Back:  dashboard.BackTarget(r.Referer(), r.Host),
	})
}

func (s *Server) handleExpenseDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("slug")
	state := s.detail.Load(r.Context(), id)
	if state.IsFailed() {
		if state.Reason == dashboard.ReasonCancelled {
			return
		}
		atomic.AddInt64(&s.appMetrics.detailFailures, 1)
	}
	s.render(w, r, "expense_detail", detailView{
		State: state,
		ID:    id,
		Retry: state.IsFailed() && state.Reason != dashboard.ReasonNotFound,
	})
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether the expense API answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if _, err := s.api.ListCategories(ctx); err != nil {
		checks["expense_api"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["expense_api"] = "ok"
	}

	stats := s.categories.Cache().Stats()
	checks["category_cache"] = map[string]any{
		"entries": stats.Size,
		"status":  "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	cacheStats := s.categories.Cache().Stats()
	m := s.appMetrics

	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	writeMetric(w, "http_response_time_microseconds", "gauge", "Smoothed response time", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP view_failures_total Views rendered in the failed state\n")
	fmt.Fprintf(w, "# TYPE view_failures_total counter\n")
	fmt.Fprintf(w, "view_failures_total{view=\"list\",reason=\"fetch\"} %d\n", atomic.LoadInt64(&m.listFailures))
	fmt.Fprintf(w, "view_failures_total{view=\"list\",reason=\"enrichment\"} %d\n", atomic.LoadInt64(&m.enrichmentFailures))
	fmt.Fprintf(w, "view_failures_total{view=\"detail\"} %d\n", atomic.LoadInt64(&m.detailFailures))
	fmt.Fprintf(w, "view_failures_total{view=\"total\"} %d\n", atomic.LoadInt64(&m.totalFailures))
	fmt.Fprintf(w, "view_failures_total{view=\"categories\"} %d\n\n", atomic.LoadInt64(&m.categoryFailures))

	writeMetric(w, "list_pages_kept_total", "counter", "Failed page changes that kept the previous page", atomic.LoadInt64(&m.keptPages))
	writeMetric(w, "cache_hits_total", "counter", "Category cache hits", int64(cacheStats.Hits))
	writeMetric(w, "cache_misses_total", "counter", "Category cache misses", int64(cacheStats.Misses))
	writeMetric(w, "cache_entries", "gauge", "Current category cache entries", int64(cacheStats.Size))
	writeMetric(w, "rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	writeMetric(w, "suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(m.uptime).Seconds())
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n\n", name, value)
}
