package reports

// Pagination limits.
const (
	DefaultItemCountPerPage = 10
	MaxItemCountPerPage     = 500
)

// PageRequest selects one page of a report and its ordering.
type PageRequest struct {
	PageNumber        int    `json:"page_number"`
	ItemCountPerPage  int    `json:"item_count_per_page"`
	OrderByColumnName string `json:"order_by_column_name,omitempty"`
	OrderByDescending bool   `json:"order_by_descending,omitempty"`
}

// Normalize applies defaults: page 1, DefaultItemCountPerPage rows, at most
// MaxItemCountPerPage rows.
func (r PageRequest) Normalize() PageRequest {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
	if r.ItemCountPerPage < 1 {
		r.ItemCountPerPage = DefaultItemCountPerPage
	}
	if r.ItemCountPerPage > MaxItemCountPerPage {
		r.ItemCountPerPage = MaxItemCountPerPage
	}
	return r
}

// Offset is the number of rows skipped before the requested page.
func (r PageRequest) Offset() int {
	n := r.Normalize()
	return (n.PageNumber - 1) * n.ItemCountPerPage
}

// Page is one page of report rows.
type Page struct {
	Report           string           `json:"report"`
	Columns          []string         `json:"columns"`
	Items            []map[string]any `json:"items"`
	PageNumber       int              `json:"page_number"`
	ItemCountPerPage int              `json:"item_count_per_page"`
	TotalCount       int              `json:"total_count"`
	PageCount        int              `json:"page_count"`
}

// PageCount returns the number of pages needed for total rows.
func PageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// HasNext reports whether another page follows p.
func (p Page) HasNext() bool {
	return p.PageNumber < p.PageCount
}
