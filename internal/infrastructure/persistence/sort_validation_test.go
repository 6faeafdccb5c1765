package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string defaults to ASC", "", "ASC"},
		{"asc lowercase", "asc", "ASC"},
		{"DESC uppercase", "DESC", "DESC"},
		{"desc lowercase", "desc", "DESC"},
		{"whitespace around desc", "  desc  ", "DESC"},
		{"invalid value defaults to ASC", "sideways", "ASC"},
		{"injection attempt defaults to ASC", "ASC; DROP TABLE recipes;--", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "name"},
		{"whitelisted column passes", "cost_price", "cost_price"},
		{"unknown column returns default", "secret_column", "name"},
		{"case sensitive", "NAME", "name"},
		{"whitespace trimmed", "  version  ", "version"},
		{"injection returns default", "id; DROP TABLE recipes;--", "name"},
		{"subquery returns default", "(SELECT password FROM users)", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, RecipeSortFields, "name"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	for name, whitelist := range map[string]map[string]bool{
		"recipes":     RecipeSortFields,
		"ingredients": IngredientSortFields,
	} {
		for _, field := range []string{"id", "created_at", "updated_at", "name"} {
			assert.True(t, whitelist[field], "%s whitelist should allow %q", name, field)
		}
	}
}
