// Package http serves the expense dashboard: full pages, the htmx partials
// they load, embedded assets and operational endpoints.
//
// Responses that carry HX-* headers go through HTMXResponseBuilder so every
// handler spells them the same way.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// noticeLong is the error toast lifetime in milliseconds, read by static/app.js.
const noticeLong = 5000

// HTMXResponseBuilder builds a response from htmx headers, client-side
// events and an optional HTML body.
type HTMXResponseBuilder struct {
	statusCode int
	header     http.Header
	events     map[string]any
	body       []byte
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		statusCode: http.StatusOK,
		header:     make(http.Header),
		events:     make(map[string]any),
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Header sets a response header.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.header.Set(name, value)
	return b
}

// Trigger queues a client-side event in HX-Trigger. A later call with the
// same name replaces the payload.
func (b *HTMXResponseBuilder) Trigger(name string, payload any) *HTMXResponseBuilder {
	b.events[name] = payload
	return b
}

// Reswap overrides the swap style of the requesting element.
func (b *HTMXResponseBuilder) Reswap(style string) *HTMXResponseBuilder {
	return b.Header("HX-Reswap", style)
}

// PushURL overrides the history entry htmx would push; "false" pushes none.
func (b *HTMXResponseBuilder) PushURL(value string) *HTMXResponseBuilder {
	return b.Header("HX-Push-Url", value)
}

// KeepContent tells htmx to leave the target and the address bar untouched.
func (b *HTMXResponseBuilder) KeepContent() *HTMXResponseBuilder {
	return b.Reswap("none").PushURL("false")
}

// Location makes htmx navigate to path without a full page reload.
func (b *HTMXResponseBuilder) Location(path string) *HTMXResponseBuilder {
	return b.Header("HX-Location", path)
}

// NotificationType selects the toast style.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int              `json:"duration"`
}

// TriggerNotification queues a show-notification event.
func (b *HTMXResponseBuilder) TriggerNotification(kind NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger("show-notification", notification{Type: kind, Message: message, Duration: durationMs})
}

// TriggerErrorNotification queues an error toast that stays a little longer.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, noticeLong)
}

// BodyHTML sets an HTML body.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.header.Set("Content-Type", htmlContentType)
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, values := range b.header {
		w.Header()[name] = values
	}
	if len(b.events) > 0 {
		if encoded, err := json.Marshal(b.events); err == nil {
			w.Header().Set("HX-Trigger", string(encoded))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message, escaped, as an error fragment.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
