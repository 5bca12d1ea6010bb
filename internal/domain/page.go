package domain

const (
	DefaultPage  = 1   // First page
	DefaultLimit = 10  // Items per page when unspecified
	MaxLimit     = 100 // Upper bound on items per page
)

// PageQuery selects one page of a listing
type PageQuery struct {
	Page   int    // 1-based page number
	Limit  int    // Items per page
	Search string // Optional case-insensitive filter
}

// Normalize replaces out-of-range values with defaults
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		q.Limit = DefaultLimit
	}
	return q
}

// Offset is the number of rows skipped before this page
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta describes where a page sits in the full result set
type PageMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Pages       int   `json:"pages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPageMeta computes paging metadata for total rows under q
func NewPageMeta(q PageQuery, total int64) PageMeta {
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return PageMeta{
		Total:       total,
		Page:        q.Page,
		Pages:       pages,
		HasNextPage: q.Page < pages,
		HasPrevPage: q.Page > 1,
	}
}

// Page is one page of results
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}
