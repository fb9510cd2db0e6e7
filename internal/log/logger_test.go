package log

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewJSONFormatCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentHTTP, Output: &buf})
	l.Info("hello", FieldPage, 3)

	out := buf.String()
	if !strings.Contains(out, `"component":"http"`) || !strings.Contains(out, `"page":3`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Component: ComponentApp}).With(FieldRequestID, "r1").WithComponent(ComponentAPI)
	l.Info("x")

	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=expense_api") {
		t.Fatalf("expected a single api component, got %s", out)
	}
	if !strings.Contains(out, "request_id=r1") {
		t.Fatalf("request id lost: %s", out)
	}
	if l.Component() != ComponentAPI {
		t.Fatalf("Component() = %q", l.Component())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMiddlewareStoresLogger(t *testing.T) {
	l := Discard()
	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != l {
		t.Fatalf("expected logger from context")
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

func TestWithFilterSkipsNaN(t *testing.T) {
	f := NewFields().WithFilter([]string{"1"}, math.NaN(), 50, 2)
	if _, ok := f[FieldMinPrice]; ok {
		t.Fatalf("NaN min price should be omitted")
	}
	if f[FieldMaxPrice] != float64(50) || f[FieldPage] != 2 {
		t.Fatalf("unexpected fields: %v", f)
	}
}
