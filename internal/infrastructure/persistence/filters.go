package persistence

import (
	"strings"

	"github.com/finbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies search, pagination and ordering from the shared filter.
// The sort field goes through the whitelist before it reaches the SQL string.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedSortFields map[string]bool, searchColumns ...string) *gorm.DB {
	query = applySearch(query, filter, searchColumns...)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, allowedSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applySearch applies a case-insensitive substring match over the given
// columns. LOWER/LIKE keeps the clause portable between postgres and sqlite.
func applySearch(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search == "" || len(searchColumns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(filter.Search) + "%"
	clauses := make([]string, len(searchColumns))
	args := make([]interface{}, len(searchColumns))
	for i, col := range searchColumns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}
