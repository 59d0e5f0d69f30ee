package models

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NormalizePage clamps page to >= 1 and limit to [1, MaxPageLimit], substituting
// DefaultPageLimit for a non-positive limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// NewPagination computes the page metadata for total items split into pages of limit.
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = NormalizePage(page, limit)
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Skip is the number of documents before page.
func Skip(page, limit int) int64 {
	page, limit = NormalizePage(page, limit)
	return int64(page-1) * int64(limit)
}
