package log

import "math"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldReferer     = "referer"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldExpenseID   = "expense_id"
	FieldPage        = "page"
	FieldItems       = "items"
	FieldCategoryIDs = "category_ids"
	FieldMinPrice    = "min_price"
	FieldMaxPrice    = "max_price"
	FieldAPIPath     = "api_path"
	FieldAttempt     = "attempt"
	FieldTemplate    = "template"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAPI       = "expense_api"
	ComponentDashboard = "dashboard"
	ComponentFilter    = "filter"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentTemplate  = "template"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpRead     = "read"
	OpEnrich   = "enrich"
	OpTotal    = "total"
	OpCategory = "categories"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeNetwork   = "network_error"
	ErrorTypeUpstream  = "upstream_status_error"
	ErrorTypeMalformed = "malformed_payload_error"
	ErrorTypeTimeout   = "timeout_error"
	ErrorTypeNotFound  = "not_found_error"
	ErrorTypeInternal  = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithFilter adds the list filter fields. NaN prices are logged as absent.
func (f LogFields) WithFilter(categoryIDs []string, minPrice, maxPrice float64, page int) LogFields {
	f[FieldCategoryIDs] = categoryIDs
	if !math.IsNaN(minPrice) {
		f[FieldMinPrice] = minPrice
	}
	if !math.IsNaN(maxPrice) {
		f[FieldMaxPrice] = maxPrice
	}
	f[FieldPage] = page
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	if referer != "" {
		f[FieldReferer] = referer
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
