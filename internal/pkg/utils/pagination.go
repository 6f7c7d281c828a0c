package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is the window a client asked for
type Page struct {
	Number int
	Size   int
	Offset int
}

// PageMeta describes where a page sits in the full result.
// Embed it in list DTOs so the fields sit next to the items.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ParsePage reads page and page_size from the query string, clamping page_size to MaxPageSize
func ParsePage(r *http.Request) Page {
	q := r.URL.Query()
	number := parseIntQuery(q.Get("page"), 1)
	size := parseIntQuery(q.Get("page_size"), DefaultPageSize)

	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Page{Number: number, Size: size, Offset: (number - 1) * size}
}

// Meta builds the metadata for this page given the total item count
func (p Page) Meta(total int64) PageMeta {
	pages := int(total / int64(p.Size))
	if total%int64(p.Size) != 0 {
		pages++
	}
	return PageMeta{Page: p.Number, PageSize: p.Size, TotalItems: total, TotalPages: pages}
}

func parseIntQuery(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}
