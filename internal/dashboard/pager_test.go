package dashboard

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func labels(p Pager) string {
	parts := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		label := it.Label
		if it.Current {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func TestBuildPagerWindow(t *testing.T) {
	tests := []struct {
		current, pageCount int
		want               string
	}{
		{1, 1, "[1]"},
		{2, 2, "1 [2]"},
		{1, 5, "[1] 2 3 4 5"},
		{1, 10, "[1] 2 3 ... 8 9 10"},
		{6, 10, "1 2 3 ... 5 [6] 7 8 9 10"},
		{5, 12, "1 2 3 4 [5] 6 ... 10 11 12"},
		{10, 10, "1 2 3 ... 8 9 [10]"},
		{7, 20, "1 2 3 ... 6 [7] 8 ... 18 19 20"},
	}

	for _, tt := range tests {
		got := labels(BuildPager(tt.current, tt.pageCount, url.Values{}))
		assert.Equal(t, tt.want, got, "current=%d pageCount=%d", tt.current, tt.pageCount)
	}
}

func TestBuildPagerEmpty(t *testing.T) {
	p := BuildPager(1, 0, url.Values{})
	assert.False(t, p.Visible())
}

func TestBuildPagerIndexToPage(t *testing.T) {
	p := BuildPager(1, 5, url.Values{"category_id": {"2"}})

	third := p.Items[2]
	assert.Equal(t, 2, third.Index)
	assert.Equal(t, 3, third.Page)
	assert.Equal(t, "category_id=2&page=3", third.Query)

	assert.Equal(t, "category_id=2", p.Items[0].Query, "page 1 drops the key")
}

func TestBuildPagerPrevNext(t *testing.T) {
	first := BuildPager(1, 3, url.Values{})
	assert.True(t, first.PrevDisabled)
	assert.False(t, first.NextDisabled)
	assert.Equal(t, PrevLabel, first.Prev.Label)
	assert.Equal(t, 2, first.Next.Page)

	last := BuildPager(3, 3, url.Values{})
	assert.True(t, last.NextDisabled)
	assert.Equal(t, 2, last.Prev.Page)

	clamped := BuildPager(9, 3, url.Values{})
	assert.True(t, clamped.Items[2].Current)
}
