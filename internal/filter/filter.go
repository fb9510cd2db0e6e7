// Package filter keeps the list filter in the URL query string.
//
// The query string is the only place filter state lives. Handlers parse it on
// every request and every edit produces a new query string; nothing is held
// between requests.
package filter

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query keys understood by the dashboard and forwarded to the expense API.
const (
	KeyCategory = "category_id"
	KeyMinPrice = "min_price"
	KeyMaxPrice = "max_price"
	KeyPage     = "page"
)

var ErrUnknownField = errors.New("unknown filter field")

// State is the parsed filter. Absent or unparseable prices are NaN.
type State struct {
	CategoryIDs []string
	MinPrice    float64
	MaxPrice    float64
}

// Parse reads the filter from a query string. It never fails: anything it
// cannot read is treated as absent.
func Parse(q url.Values) State {
	return State{
		CategoryIDs: splitIDs(q.Get(KeyCategory)),
		MinPrice:    parseInt(q.Get(KeyMinPrice)),
		MaxPrice:    parseInt(q.Get(KeyMaxPrice)),
	}
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseInt reads the leading integer of s the way browsers do for form
// values: surrounding spaces and trailing garbage are ignored, "0x" selects
// hexadecimal, and no digits at all yields NaN.
func parseInt(s string) float64 {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return math.NaN()
	}

	// ParseUint saturates on overflow, which is close enough for a bound.
	v, _ := strconv.ParseUint(s[:end], base, 64)
	f := float64(v)
	if neg {
		f = -f
	}
	return f
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

// Selected reports whether the category id is part of the selection.
func (s State) Selected(id string) bool {
	for _, c := range s.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// MinInput renders the minimum price for an input field; NaN becomes "".
func (s State) MinInput() string { return formatBound(s.MinPrice) }

// MaxInput renders the maximum price for an input field; NaN becomes "".
func (s State) MaxInput() string { return formatBound(s.MaxPrice) }

func formatBound(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RangeInvalid reports a minimum above the maximum. The range is not clamped
// and the request still goes out as typed.
func (s State) RangeInvalid() bool {
	return !math.IsNaN(s.MinPrice) && !math.IsNaN(s.MaxPrice) && s.MinPrice > s.MaxPrice
}

func (s State) MinInvalid() bool { return s.RangeInvalid() }
func (s State) MaxInvalid() bool { return s.RangeInvalid() }

// Active reports whether any constraint is set.
func (s State) Active() bool {
	return len(s.CategoryIDs) > 0 || !math.IsNaN(s.MinPrice) || !math.IsNaN(s.MaxPrice)
}

// Apply writes s back into a copy of q. Keys outside the filter are kept.
func (s State) Apply(q url.Values) url.Values {
	out := WithCategories(q, s.CategoryIDs)
	out, _ = WithRange(out, KeyMinPrice, s.MinInput())
	out, _ = WithRange(out, KeyMaxPrice, s.MaxInput())
	return out
}

// WithCategories returns a copy of q with the category selection replaced.
// An empty selection removes the key.
func WithCategories(q url.Values, ids []string) url.Values {
	out := clone(q)
	var kept []string
	for _, id := range ids {
		kept = append(kept, splitIDs(id)...)
	}
	if len(kept) == 0 {
		out.Del(KeyCategory)
		return out
	}
	out.Set(KeyCategory, strings.Join(kept, ","))
	return out
}

// WithRange returns a copy of q with one price bound replaced. An empty value
// removes the key.
func WithRange(q url.Values, name, value string) (url.Values, error) {
	if name != KeyMinPrice && name != KeyMaxPrice {
		return nil, ErrUnknownField
	}
	out := clone(q)
	if value == "" {
		out.Del(name)
		return out, nil
	}
	out.Set(name, value)
	return out, nil
}

// ApplyEdit applies a form submission to q. field names the control that
// changed; an empty field applies every filter control found in form.
func ApplyEdit(q url.Values, field string, form url.Values) (url.Values, error) {
	switch field {
	case KeyCategory:
		return WithCategories(q, form[KeyCategory]), nil
	case KeyMinPrice, KeyMaxPrice:
		return WithRange(q, field, strings.TrimSpace(form.Get(field)))
	case "":
		out := WithCategories(q, form[KeyCategory])
		for _, name := range []string{KeyMinPrice, KeyMaxPrice} {
			out, _ = WithRange(out, name, strings.TrimSpace(form.Get(name)))
		}
		return out, nil
	default:
		return nil, ErrUnknownField
	}
}

// Encode serializes q with keys in sorted order.
func Encode(q url.Values) string {
	return q.Encode()
}

// Navigate returns the location for u with its query replaced by q. The path
// is preserved.
func Navigate(u *url.URL, q url.Values) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if enc := Encode(q); enc != "" {
		return path + "?" + enc
	}
	return path
}

// APIParams builds the outgoing list request. Filter values are forwarded
// exactly as they appear in the URL; absent keys are omitted.
func APIParams(q url.Values, page int) url.Values {
	out := url.Values{}
	if page > 0 {
		out.Set(KeyPage, strconv.Itoa(page))
	}
	for _, key := range []string{KeyMinPrice, KeyMaxPrice, KeyCategory} {
		if v := q.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	return out
}

// PageFromIndex converts a zero-based pager index to a 1-based page number.
func PageFromIndex(selected int) int {
	return selected + 1
}

// PageFromQuery reads the 1-based page from q, defaulting to 1.
func PageFromQuery(q url.Values) int {
	p, err := strconv.Atoi(q.Get(KeyPage))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// WithPage returns a copy of q pointing at page.
func WithPage(q url.Values, page int) url.Values {
	out := clone(q)
	if page <= 1 {
		out.Del(KeyPage)
		return out
	}
	out.Set(KeyPage, strconv.Itoa(page))
	return out
}

func clone(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
