// Package query holds the paging envelope shared by application list operations.
package query

import "github.com/tms/backend/internal/domain/shared"

// Page is one page of a list result
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPage wraps items fetched with filter. filter should already be normalized.
func NewPage[T any](items []T, total int64, filter shared.Filter) *Page[T] {
	if items == nil {
		items = []T{}
	}
	p := &Page[T]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.PageSize > 0 {
		p.TotalPages = int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	}
	return p
}

// Map converts a slice of domain values into DTOs
func Map[S, T any](items []S, fn func(*S) T) []T {
	out := make([]T, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
