package domain

// Page is the envelope every list endpoint returns. Derived, never
// stored.
type Page[T any] struct {
	Items     []T   `json:"items"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	TotalPage int64 `json:"totalPage"`
}

// NewPage assembles a page envelope. TotalPage is ceil(total/pageSize);
// an empty result set yields zero pages.
func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	var totalPage int64
	if total > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Page[T]{
		Items:     items,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		TotalPage: totalPage,
	}
}
