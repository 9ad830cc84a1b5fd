package pagination

import (
	"net/url"
	"strconv"
)

// Pagination is serialized next to data in list responses.
type Pagination struct {
	Limit           int     `json:"limit"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	NextCursor      *string `json:"nextCursor"`
}

// Page is one cursor page of T.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate turns rows fetched with p.FetchLimit() into a page. When the extra
// row is present it is dropped and the key of the last kept row becomes the
// next cursor.
//
// HasPreviousPage only reports that a cursor was supplied; it does not look
// backwards for rows.
func Paginate[T any](rows []T, p Params, key func(T) Cursor) Page[T] {
	p = p.Normalize()

	hasNext := len(rows) > p.Limit
	if hasNext {
		rows = rows[:p.Limit]
	}
	if rows == nil {
		rows = []T{}
	}

	var next *string
	if hasNext && len(rows) > 0 {
		c := Encode(key(rows[len(rows)-1]))
		next = &c
	}

	return Page[T]{
		Data: rows,
		Pagination: Pagination{
			Limit:           p.Limit,
			HasNextPage:     hasNext,
			HasPreviousPage: p.Cursor != "",
			NextCursor:      next,
		},
	}
}

// Map converts the data of a page, keeping its pagination.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Data))
	for i, v := range p.Data {
		out[i] = fn(v)
	}
	return Page[U]{Data: out, Pagination: p.Pagination}
}

// =============================================================================
// Offset pagination (admin listings)
// =============================================================================

// PageParams selects a 1-based page.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageParams) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// PageInfo describes an offset page.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPageInfo computes the page count for total rows.
func NewPageInfo(p PageParams, total int64) PageInfo {
	p = p.Normalize()
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageInfo{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// ParsePageParams reads page and limit from a query string; bad values fall back to defaults.
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return PageParams{Page: page, Limit: limit}.Normalize()
}
