package shared

// Filter is the list query shared by the catalog and partner repositories.
// Filters holds repository-specific flags such as "active" or "low_stock";
// OrderBy is checked against a per-table whitelist before it reaches SQL.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 20, OrderBy: "created_at", OrderDir: "desc", Filters: map[string]any{}}
}

// Offset is the number of rows skipped before the current page.
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
