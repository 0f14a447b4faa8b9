package persistence

import (
	"regexp"
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// orderColumnPattern limits OrderBy to plain column names so user-supplied
// sort fields can never inject SQL.
var orderColumnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field syntactically.
// Returns an empty string if the field is empty or not a plain column name.
func ValidateSortField(sortField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !orderColumnPattern.MatchString(trimmed) {
		return ""
	}
	return trimmed
}

// applyPaginationAndOrder applies pagination and ordering from the shared
// filter. The defaultOrder is used when no explicit OrderBy is given.
func applyPaginationAndOrder(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if field := ValidateSortField(filter.OrderBy); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order(defaultOrder)
	}

	return query
}
