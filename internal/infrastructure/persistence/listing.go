package persistence

import (
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// sortable is the whitelist of columns a listing may be ordered by.
// Requested names outside the whitelist fall back to the default column,
// so user input never reaches ORDER BY verbatim.
type sortable struct {
	fallback string
	columns  map[string]struct{}
}

func newSortable(fallback string, columns ...string) sortable {
	s := sortable{fallback: fallback, columns: make(map[string]struct{}, len(columns)+1)}
	s.columns[fallback] = struct{}{}
	for _, c := range columns {
		s.columns[c] = struct{}{}
	}
	return s
}

func (s sortable) column(requested string) string {
	requested = strings.TrimSpace(requested)
	if _, ok := s.columns[requested]; ok {
		return requested
	}
	return s.fallback
}

func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	productSort    = newSortable("name", "created_at", "updated_at", "code", "base_price", "stock")
	unitSort       = newSortable("name", "created_at", "abbreviation", "unit_type")
	promotionSort  = newSortable("created_at", "name", "promotion_type", "start_date", "end_date")
	customerSort   = newSortable("name", "created_at", "updated_at", "document_number")
	invoiceSort    = newSortable("invoice_date", "created_at", "invoice_number", "total", "status")
	productionSort = newSortable("created_at", "batch_number", "quantity", "status", "completed_at")
)

// paginate orders by the whitelisted column with id as a stable tiebreak
// and applies limit/offset when a page size is set.
func paginate(query *gorm.DB, filter shared.Filter, s sortable) *gorm.DB {
	query = query.Order(s.column(filter.OrderBy) + " " + sortDirection(filter.OrderDir) + ", id ASC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}

// likePattern builds a lower-cased contains pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
