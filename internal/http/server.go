package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"expenseboard/internal/cache"
	"expenseboard/internal/dashboard"
	"expenseboard/internal/icons"
	applog "expenseboard/internal/log"
	"expenseboard/internal/middleware/ratelimit"
	"expenseboard/internal/middleware/security"
	"expenseboard/internal/middleware/trace"
	appweb "expenseboard/web"
)

const (
	// keepParam marks list partial requests issued while a page is already
	// on screen. A failure then leaves that page in place.
	keepParam = "keep"

	cacheSweepInterval = 10 * time.Minute
	staticMaxAge       = 3600
)

// Options wires the server to the expense API and its runtime limits.
type Options struct {
	Addr               string
	API                dashboard.API
	EnrichConcurrency  int
	CategoryCacheTTL   time.Duration
	RateLimitPerMinute int
	Icons              icons.Provider
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	api       dashboard.API

	list       *dashboard.ListLoader
	detail     *dashboard.DetailLoader
	total      *dashboard.TotalLoader
	categories *dashboard.CategoryLoader

	cacheManager *cache.Manager
	stopCaches   context.CancelFunc

	logger           *applog.Logger
	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run http.Server.
func NewServer(opts Options) (*Server, error) {
	if opts.API == nil {
		return nil, errors.New("expense API is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	provider := opts.Icons
	if provider == nil {
		provider = icons.Default()
	}
	ttl := opts.CategoryCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates: templates,
		api:       opts.API,
		list: dashboard.NewListLoader(opts.API, opts.API,
			dashboard.WithEnrichConcurrency(opts.EnrichConcurrency),
			dashboard.WithListLogger(logger)),
		detail:           dashboard.NewDetailLoader(opts.API, logger),
		total:            dashboard.NewTotalLoader(opts.API, logger),
		categories:       dashboard.NewCategoryLoader(opts.API, ttl, logger),
		cacheManager:     cache.NewManager(logger),
		logger:           logger.WithComponent(applog.ComponentHTTP),
		securityDetector: security.NewDetector(logger),
		appMetrics:       newAppMetrics(),
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: opts.RateLimitPerMinute,
		Logger:            logger,
	})
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)

	s.cacheManager.Register(s.categories.Cache())
	cacheCtx, cancel := context.WithCancel(context.Background())
	s.stopCaches = cancel
	s.cacheManager.Start(cacheCtx, cacheSweepInterval)

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /expenses/{slug}", s.handleDetailPage)

	// UI partials
	mux.HandleFunc("GET /ui/expenses", s.handleExpenseList)
	mux.HandleFunc("GET /ui/expenses/{slug}", s.handleExpenseDetail)
	mux.HandleFunc("GET /ui/total", s.handleTotal)
	mux.HandleFunc("GET /ui/filters", s.handleFilters)
	mux.HandleFunc("GET /ui/filters/apply", s.handleFilterApply)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = icons.Middleware(provider)(handler)
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, skipRateLimit)(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = applog.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s, nil
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"withQuery":  withQuery,
		"keepPage":   keepPage,
		"pagerLink":  newPagerLink,
		"pathEscape": url.PathEscape,
	}
}

// skipRateLimit exempts assets and probes so a page load is one unit of
// budget per partial, not per icon.
func skipRateLimit(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/readyz", "/metrics":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/static/")
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.stopCaches()
		s.cacheManager.Wait()

		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
