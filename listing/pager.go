package listing

import "github.com/eringen/tolet/api"

// PageSize is the number of posts per blog page.
const PageSize = 6

// BlogSort is the server-side blog ordering.
type BlogSort string

const (
	SortLatest   BlogSort = "latest"
	SortTrending BlogSort = "trending"
)

// ParseBlogSort maps a query value to a mode, defaulting to latest.
func ParseBlogSort(s string) BlogSort {
	if BlogSort(s) == SortTrending {
		return SortTrending
	}
	return SortLatest
}

// Pager is the blog list cursor. The backend owns the page contents; the
// pager only tracks which page to ask for.
type Pager struct {
	Page       int
	Limit      int
	SortBy     BlogSort
	TotalPages int
}

// NewPager starts at page one of the latest posts.
func NewPager() Pager {
	return Pager{Page: 1, Limit: PageSize, SortBy: SortLatest, TotalPages: 1}
}

// SetSort switches mode. A different mode resets to page one and reports
// that a fetch is due; the current mode is a no-op.
func (p *Pager) SetSort(s BlogSort) bool {
	if s == p.SortBy {
		return false
	}
	p.SortBy = s
	p.Page = 1
	return true
}

// SetPage moves to page n when it is within range.
func (p *Pager) SetPage(n int) bool {
	if n < 1 || n > p.TotalPages || n == p.Page {
		return false
	}
	p.Page = n
	return true
}

// SetTotal records the page count from a response, clamping the cursor.
func (p *Pager) SetTotal(total int) {
	if total < 1 {
		total = 1
	}
	p.TotalPages = total
	if p.Page > total {
		p.Page = total
	}
}

// Query is the request for the current page.
func (p Pager) Query() api.BlogQuery {
	return api.BlogQuery{Page: p.Page, Limit: p.Limit, SortBy: string(p.SortBy)}
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// PageLink is one slot of the page-number strip.
type PageLink struct {
	Number   int
	Current  bool
	Ellipsis bool
}

// Window lists the first page, the last page and the pages next to the
// current one, with an ellipsis two steps out.
func (p Pager) Window() []PageLink {
	var out []PageLink
	for n := 1; n <= p.TotalPages; n++ {
		switch {
		case n == 1 || n == p.TotalPages || (n >= p.Page-1 && n <= p.Page+1):
			out = append(out, PageLink{Number: n, Current: n == p.Page})
		case n == p.Page-2 || n == p.Page+2:
			out = append(out, PageLink{Number: n, Ellipsis: true})
		}
	}
	return out
}
