package collection

import (
	"errors"
	"slices"
)

const (
	DefaultItemsPerPage = 30
	// more pages than this collapse into first, current±1 and last
	maxVisiblePages = 5
)

var (
	AllowedItemsPerPage = []int{30, 50, 100}

	ErrInvalidItemsPerPage = errors.New("items per page must be one of 30, 50, 100")
	ErrPositionOutOfRange  = errors.New("position is outside the current page")
)

type (
	Paginator struct {
		currentPage  int
		itemsPerPage int
	}
	PageLink struct {
		Number   int  `json:"number,omitempty"`
		Current  bool `json:"current,omitempty"`
		Ellipsis bool `json:"ellipsis,omitempty"`
	}
)

func NewPaginator(itemsPerPage int) (Paginator, error) {
	if !slices.Contains(AllowedItemsPerPage, itemsPerPage) {
		return Paginator{}, ErrInvalidItemsPerPage
	}
	return Paginator{currentPage: 1, itemsPerPage: itemsPerPage}, nil
}

func (p Paginator) CurrentPage() int  { return p.currentPage }
func (p Paginator) ItemsPerPage() int { return p.itemsPerPage }

func TotalPages(count, itemsPerPage int) int {
	if count <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (count + itemsPerPage - 1) / itemsPerPage
}

func (p Paginator) TotalPages(count int) int { return TotalPages(count, p.itemsPerPage) }

// Clamp pulls currentPage back into [1, max(1, totalPages)].
func (p *Paginator) Clamp(count int) {
	last := max(1, p.TotalPages(count))
	p.currentPage = min(max(p.currentPage, 1), last)
}

// SetPage moves to page, silently clamped, and returns the page it landed on.
func (p *Paginator) SetPage(page, count int) int {
	p.currentPage = page
	p.Clamp(count)
	return p.currentPage
}

// SetItemsPerPage always returns the user to page 1.
func (p *Paginator) SetItemsPerPage(n int) error {
	if !slices.Contains(AllowedItemsPerPage, n) {
		return ErrInvalidItemsPerPage
	}
	p.itemsPerPage = n
	p.currentPage = 1
	return nil
}

// Bounds is the half-open [lo, hi) range of the current page inside a list of count items.
func (p Paginator) Bounds(count int) (lo, hi int) {
	lo = min((p.currentPage-1)*p.itemsPerPage, max(count, 0))
	hi = min(p.currentPage*p.itemsPerPage, max(count, 0))
	return lo, hi
}

// AbsoluteIndex turns an index relative to the current page into an index of
// the whole filtered list.
func (p Paginator) AbsoluteIndex(relative, count int) (int, error) {
	lo, hi := p.Bounds(count)
	abs := lo + relative
	if relative < 0 || abs >= hi {
		return 0, ErrPositionOutOfRange
	}
	return abs, nil
}

// Window lists the page links to render, with ellipsis markers when the
// page count exceeds maxVisiblePages.
func (p Paginator) Window(count int) []PageLink {
	total := p.TotalPages(count)
	if total == 0 {
		return nil
	}

	link := func(n int) PageLink { return PageLink{Number: n, Current: n == p.currentPage} }

	links := make([]PageLink, 0, maxVisiblePages+2)
	if total <= maxVisiblePages {
		for i := 1; i <= total; i++ {
			links = append(links, link(i))
		}
		return links
	}

	links = append(links, link(1))
	if p.currentPage > 3 {
		links = append(links, PageLink{Ellipsis: true})
	}
	for i := max(2, p.currentPage-1); i <= min(total-1, p.currentPage+1); i++ {
		links = append(links, link(i))
	}
	if p.currentPage < total-2 {
		links = append(links, PageLink{Ellipsis: true})
	}
	links = append(links, link(total))

	return links
}
