package models

import "strings"

// Sort columns accepted by TaskFilter.SortBy
const (
	SortByCreatedAt = "created_at"
	SortByDueDate   = "due_date"
)

// Sort directions accepted by TaskFilter.Order
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TaskFilter represents the recognized options of a task listing.
// Unrecognized sort values fall back to defaults, they never fail.
type TaskFilter struct {
	Status   Status
	Priority Priority
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// Normalize returns a copy of f with defaults applied and the page size
// clamped to maxLimit.
func (f TaskFilter) Normalize(defaultLimit, maxLimit int) TaskFilter {
	out := f

	switch f.SortBy {
	case SortByCreatedAt, SortByDueDate:
	default:
		out.SortBy = SortByCreatedAt
	}

	switch strings.ToLower(f.Order) {
	case OrderAsc:
		out.Order = OrderAsc
	default:
		out.Order = OrderDesc
	}

	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit < 1 {
		out.Limit = defaultLimit
	}
	if maxLimit > 0 && out.Limit > maxLimit {
		out.Limit = maxLimit
	}
	return out
}

// Offset of the first row of the page
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
