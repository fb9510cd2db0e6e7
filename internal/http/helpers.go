package http

import (
	"bytes"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"expenseboard/internal/dashboard"
	"expenseboard/internal/filter"
	applog "expenseboard/internal/log"
)

const htmlContentType = "text/html; charset=utf-8"

// appMetrics counts view outcomes for /metrics.
type appMetrics struct {
	listFailures       int64
	enrichmentFailures int64
	detailFailures     int64
	totalFailures      int64
	categoryFailures   int64
	keptPages          int64
	uptime             time.Time
}

func newAppMetrics() *appMetrics {
	return &appMetrics{uptime: time.Now()}
}

func (m *appMetrics) listFailed(reason dashboard.Reason) {
	switch reason {
	case dashboard.ReasonEnrichment:
		atomic.AddInt64(&m.enrichmentFailures, 1)
	case dashboard.ReasonFetch:
		atomic.AddInt64(&m.listFailures, 1)
	}
}

// render executes a template into a buffer so a failing template never
// leaves a half-written response behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldTemplate, name,
			applog.FieldPath, r.URL.Path,
			applog.FieldComponent, applog.ComponentTemplate,
			applog.FieldError, err.Error())
		InternalServerError("Something went wrong while rendering this view.").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.String()).Write(w)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// viewQuery returns the filter query of a request without transport-only
// markers.
func viewQuery(r *http.Request) url.Values {
	q := r.URL.Query()
	q.Del(keepParam)
	return q
}

// withQuery joins a path and an encoded query.
func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// keepPage marks an encoded query as issued from a page already on screen.
func keepPage(query string) string {
	if query == "" {
		return keepParam + "=1"
	}
	return query + "&" + keepParam + "=1"
}

// pagerLink is the template input of one pagination control entry.
type pagerLink struct {
	Item     dashboard.PagerItem
	Disabled bool
	Rel      string
}

func newPagerLink(item dashboard.PagerItem, disabled bool, rel string) pagerLink {
	return pagerLink{Item: item, Disabled: disabled, Rel: rel}
}

type indexView struct {
	Title string
	Query string
}

type listView struct {
	State dashboard.State[dashboard.ListData]
	Query string
}

type filterView struct {
	Categories dashboard.State[[]dashboard.CategoryOption]
	Filter     filter.State
	Query      string
}

type detailPageView struct {
	Title string
	ID    string
	Back  string
}

type detailView struct {
	State dashboard.State[dashboard.DetailData]
	ID    string
	Retry bool
}
