package store

// Per-resource sort whitelists. A sortBy outside the list falls back to
// the default sort field, never to an unvalidated expression.
var (
	AssetSortFields      = []string{"createdAt", "updatedAt", "code", "name", "type", "active"}
	TicketSortFields     = []string{"createdAt", "updatedAt", "dueAt", "priority", "status", "code", "title"}
	ItemSortFields       = []string{"createdAt", "updatedAt", "code", "status"}
	UserSortFields       = []string{"createdAt", "updatedAt", "username", "email", "name", "role", "status"}
	DepartmentSortFields = []string{"createdAt", "updatedAt", "code", "name"}
)

const (
	defaultSortField = "createdAt"
	defaultPageSize  = 20
	maxPageSize      = 200
)

// PageSpec is the validated sort/pagination part of a query
// specification. Constructed fresh per request, never persisted.
type PageSpec struct {
	SortBy   string
	Desc     bool
	Page     int
	PageSize int
}

// Skip is the number of documents to pass over before the first item
// of the requested page.
func (s PageSpec) Skip() int {
	return (s.Page - 1) * s.PageSize
}

// BuildPageSpec validates raw sort and pagination parameters against a
// resource's sort whitelist.
//
// page defaults to 1 and clamps to >=1; pageSize defaults to 20 and
// clamps to [1,200]. An unlisted sortBy falls back to createdAt.
// order "asc" sorts ascending; anything else, including empty, sorts
// descending.
func BuildPageSpec(sortBy, order string, page, pageSize int, whitelist []string) PageSpec {
	if page < 1 {
		page = 1
	}

	switch {
	case pageSize < 1:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	field := defaultSortField
	for _, allowed := range whitelist {
		if sortBy == allowed {
			field = sortBy
			break
		}
	}

	return PageSpec{
		SortBy:   field,
		Desc:     order != "asc",
		Page:     page,
		PageSize: pageSize,
	}
}
