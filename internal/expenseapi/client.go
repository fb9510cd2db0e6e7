// Package expenseapi is the HTTP client for the external expense REST API.
//
// Every call is a GET against a fixed base URL. Failures are classified as
// ErrTransport, *StatusError or ErrMalformed so callers can decide how to
// present them.
package expenseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"expenseboard/internal/core"
	applog "expenseboard/internal/log"
)

const (
	// maxBodyBytes bounds how much of a response is decoded.
	maxBodyBytes = 4 << 20

	defaultTimeout = 10 * time.Second
)

// Client talks to the expense API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	backoff    func(attempt int) time.Duration
	logger     *applog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries enables up to n additional attempts for transport failures and
// 5xx answers.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *applog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithComponent(applog.ComponentAPI)
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		backoff:    exponentialBackoff,
		logger:     applog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// ListExpenses fetches one page of expenses. params are sent unmodified.
func (c *Client) ListExpenses(ctx context.Context, params url.Values) (core.ExpensePage, error) {
	var resp listResponse
	if err := c.get(ctx, "/expenses", params, &resp); err != nil {
		return core.ExpensePage{}, err
	}
	if resp.Paging == nil {
		return core.ExpensePage{}, fmt.Errorf("list expenses: %w: missing paging", ErrMalformed)
	}

	items := make([]core.Expense, 0, len(resp.Data))
	for i, d := range resp.Data {
		e, err := d.toDomain()
		if err != nil {
			return core.ExpensePage{}, fmt.Errorf("list expenses: item %d: %w: %w", i, ErrMalformed, err)
		}
		items = append(items, e)
	}
	return core.ExpensePage{Items: items, Paging: resp.Paging.toDomain()}, nil
}

// GetExpense fetches a single expense by id.
func (c *Client) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	if strings.TrimSpace(id) == "" {
		return core.Expense{}, core.ErrEmptyID
	}

	var d expenseDTO
	if err := c.get(ctx, "/expenses/"+url.PathEscape(id), nil, &d); err != nil {
		return core.Expense{}, err
	}
	e, err := d.toDomain()
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w: %w", id, ErrMalformed, err)
	}
	return e, nil
}

// ListCategories fetches the category enumeration.
func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var resp []categoryDTO
	if err := c.get(ctx, "/expenses/category", nil, &resp); err != nil {
		return nil, err
	}
	categories := make([]core.Category, 0, len(resp))
	for _, d := range resp {
		if d.ID == "" {
			return nil, fmt.Errorf("list categories: %w: category %q without id", ErrMalformed, d.Name)
		}
		categories = append(categories, core.Category{ID: string(d.ID), Name: d.Name})
	}
	return categories, nil
}

// Total fetches the all-time expense sum.
func (c *Client) Total(ctx context.Context) (core.Money, error) {
	var resp totalResponse
	if err := c.get(ctx, "/expenses/total", nil, &resp); err != nil {
		return core.Money{}, err
	}
	if resp.Total == nil || !resp.Total.set {
		return core.Money{}, fmt.Errorf("total: %w: missing total", ErrMalformed)
	}
	return resp.Total.Money, nil
}

// get performs a GET with the configured retry policy and decodes the JSON
// body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		err := c.do(ctx, path, endpoint, out)
		if err == nil {
			return nil
		}
		if attempt >= c.retries || !retryable(err) || ctx.Err() != nil {
			return err
		}

		wait := c.backoff(attempt)
		c.logger.WarnContext(ctx, "Expense API call failed, retrying",
			applog.FieldAPIPath, path,
			applog.FieldAttempt, attempt+1,
			"backoff", wait.String(),
			applog.FieldError, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

func (c *Client) do(ctx context.Context, path, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w: %w", path, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Expense API response",
		applog.FieldAPIPath, path,
		applog.FieldStatusCode, resp.StatusCode,
		applog.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w: %w", path, ErrMalformed, err)
	}
	return nil
}
