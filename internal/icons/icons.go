// Package icons maps expense categories onto their static icon assets.
//
// The mapping is supplied once at the application root through Middleware
// and read back with FromContext wherever a category is rendered.
package icons

import (
	"context"
	"net/http"

	"expenseboard/internal/core"
)

// StaticPrefix is the URL prefix under which the icon files are served.
const StaticPrefix = "/static/icons/"

// Icon is a rendered category icon.
type Icon struct {
	Category core.CategoryName
	Path     string
	Alt      string
}

// Provider resolves categories to icons. Implementations must be total:
// every input yields an Icon with a non-empty Path.
type Provider interface {
	Lookup(name core.CategoryName) Icon
}

type staticProvider struct{}

var defaultProvider Provider = staticProvider{}

// Default returns the built-in provider backed by the embedded SVG assets.
func Default() Provider {
	return defaultProvider
}

// Lookup covers the closed category set; anything else gets the fallback.
func (staticProvider) Lookup(name core.CategoryName) Icon {
	var file string
	switch name {
	case core.Transportation:
		file = "transportation.svg"
	case core.Food:
		file = "food.svg"
	case core.Housing:
		file = "house.svg"
	case core.PersonalSpending:
		file = "beer.svg"
	default:
		return Icon{Category: core.CategoryUnknown, Path: StaticPrefix + "unknown.svg", Alt: core.CategoryUnknown.String()}
	}
	return Icon{Category: name, Path: StaticPrefix + file, Alt: name.String()}
}

// ForName resolves a category name as returned by the expense API.
func ForName(p Provider, name string) Icon {
	return p.Lookup(core.ParseCategoryName(name))
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the provider installed by Middleware, or Default.
func FromContext(ctx context.Context) Provider {
	if p, ok := ctx.Value(contextKey{}).(Provider); ok && p != nil {
		return p
	}
	return Default()
}

// Middleware installs p into every request context.
func Middleware(p Provider) func(http.Handler) http.Handler {
	if p == nil {
		p = Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p)))
		})
	}
}
