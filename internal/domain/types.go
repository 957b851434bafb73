// Package domain provides shared types for business-domain data access.
package domain

// ListFilter contains common filtering options for list operations.
//
// No tenant field on purpose: tenant confinement comes from the bound
// connection's session state, never from a caller-supplied filter value.
type ListFilter struct {
	// Search performs a substring match on searchable fields
	Search string

	// OrderBy specifies sorting (e.g., "created_at", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-created_at",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
