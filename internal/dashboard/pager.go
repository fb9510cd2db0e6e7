package dashboard

import (
	"net/url"
	"strconv"

	"expenseboard/internal/filter"
)

const (
	pagerRange  = 2 // pages shown around the current one
	pagerMargin = 3 // pages always shown at each end

	PrevLabel  = "<"
	NextLabel  = ">"
	BreakLabel = "..."
)

// PagerItem is one entry of the pagination control: a page link or a break.
type PagerItem struct {
	Break   bool
	Index   int // zero-based, as the control counts
	Page    int // 1-based, as the API counts
	Label   string
	Current bool
	Query   string
}

// Pager is the rendered pagination control.
type Pager struct {
	Prev  PagerItem
	Next  PagerItem
	Items []PagerItem

	PrevDisabled bool
	NextDisabled bool
}

// Visible reports whether there is anything to page through.
func (p Pager) Visible() bool {
	return len(p.Items) > 0
}

// BuildPager lays out the pagination control for the 1-based current page
// out of pageCount. The window shows pagerMargin pages at both ends and
// pagerRange pages around the current one, with breaks in between. Each link
// carries the query for its page, derived from q.
func BuildPager(current, pageCount int, q url.Values) Pager {
	if pageCount < 1 {
		return Pager{}
	}
	selected := current - 1
	if selected < 0 {
		selected = 0
	}
	if selected > pageCount-1 {
		selected = pageCount - 1
	}

	link := func(index int, label string) PagerItem {
		page := filter.PageFromIndex(index)
		if label == "" {
			label = strconv.Itoa(page)
		}
		return PagerItem{
			Index:   index,
			Page:    page,
			Label:   label,
			Current: index == selected,
			Query:   filter.Encode(filter.WithPage(q, page)),
		}
	}

	p := Pager{
		PrevDisabled: selected == 0,
		NextDisabled: selected == pageCount-1,
	}
	p.Prev = link(max(selected-1, 0), PrevLabel)
	p.Prev.Current = false
	p.Next = link(min(selected+1, pageCount-1), NextLabel)
	p.Next.Current = false

	if pageCount <= pagerRange {
		for i := 0; i < pageCount; i++ {
			p.Items = append(p.Items, link(i, ""))
		}
		return p
	}

	leftSide := pagerRange / 2
	rightSide := pagerRange - leftSide
	if selected > pageCount-pagerRange/2 {
		rightSide = pageCount - selected
		leftSide = pagerRange - rightSide
	} else if selected < pagerRange/2 {
		leftSide = selected
		rightSide = pagerRange - leftSide
	}

	for i := 0; i < pageCount; i++ {
		page := i + 1
		if page <= pagerMargin || page > pageCount-pagerMargin {
			p.Items = append(p.Items, link(i, ""))
			continue
		}

		adjustedRight := rightSide
		if selected == 0 && pagerRange > 1 {
			adjustedRight--
		}
		if i >= selected-leftSide && i <= selected+adjustedRight {
			p.Items = append(p.Items, link(i, ""))
			continue
		}

		if n := len(p.Items); n > 0 && !p.Items[n-1].Break {
			p.Items = append(p.Items, PagerItem{Break: true, Index: -1, Label: BreakLabel})
		}
	}
	return p
}
