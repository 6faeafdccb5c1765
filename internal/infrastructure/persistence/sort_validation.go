package persistence

import (
	"strings"
)

// Sort parameters arrive straight from query strings and end up inside
// ORDER BY clauses, so every column name passes through a whitelist and
// every direction is normalized before it touches SQL.

// ValidateSortOrder normalizes a sort direction to ASC or DESC. Anything
// other than a case-insensitive "desc" sorts ascending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "desc") {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField checks a requested sort column against the entity's
// whitelist. Empty or unknown columns fall back to defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// RecipeSortFields lists the recipe columns list endpoints may sort by
var RecipeSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"status":         true,
	"version":        true,
	"owner_id":       true,
	"yield_quantity": true,
	"cost_price":     true,
}

// IngredientSortFields lists the ingredient columns list endpoints may
// sort by
var IngredientSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"name":               true,
	"base_unit":          true,
	"cost_per_base_unit": true,
}
