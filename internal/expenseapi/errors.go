package expenseapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	applog "expenseboard/internal/log"
)

var (
	// ErrTransport marks failures to reach the API at all.
	ErrTransport = errors.New("expense api unreachable")
	// ErrMalformed marks responses that could not be decoded or lack a
	// required field.
	ErrMalformed = errors.New("malformed expense api payload")
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("expense api %s: unexpected status %d %s", e.Path, e.Code, http.StatusText(e.Code))
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// ErrorType classifies err for structured logging.
func ErrorType(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return applog.ErrorTypeTimeout
	case errors.As(err, &se):
		if se.Code == http.StatusNotFound {
			return applog.ErrorTypeNotFound
		}
		return applog.ErrorTypeUpstream
	case errors.Is(err, ErrMalformed):
		return applog.ErrorTypeMalformed
	case errors.Is(err, ErrTransport):
		return applog.ErrorTypeNetwork
	default:
		return applog.ErrorTypeInternal
	}
}

// retryable reports whether another attempt could succeed: transport
// failures and 5xx answers.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return errors.Is(err, ErrTransport)
}
