package pagination

import "gorm.io/gorm"

const (
	defaultLimit = 100
	maxLimit     = 500
)

// ListRequest holds offset/limit parameters parsed from query strings.
// An offset past the end of the result set yields an empty list, not an error.
type ListRequest struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Defaults fills in the default limit and clamps it to the maximum.
func (r *ListRequest) Defaults() {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
}

// ListResponse wraps a listed slice of items with paging metadata.
type ListResponse[T any] struct {
	Data       []T   `json:"data"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
}

// NewListResponse creates a ListResponse from the given data and total count.
func NewListResponse[T any](data []T, offset, limit int, totalItems int64) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{
		Data:       data,
		Offset:     offset,
		Limit:      limit,
		TotalItems: totalItems,
	}
}

// Paginate returns a GORM scope applying OFFSET and LIMIT, ordered by
// primary key so listings are stable across calls.
func Paginate(req ListRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id").Offset(req.Offset).Limit(req.Limit)
	}
}
