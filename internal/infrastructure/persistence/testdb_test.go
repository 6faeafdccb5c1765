package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mise/backend/internal/domain/recipe"
)

// setupTestDB creates an in-memory SQLite database with the recipe schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&recipe.Recipe{},
		&recipe.Ingredient{},
		&recipe.RecipeIngredient{},
		&recipe.SubRecipeLink{},
	)
	require.NoError(t, err)

	return db
}

func mustRecipe(t *testing.T, name, ownerID string) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(name, ownerID)
	require.NoError(t, err)
	return r
}

func mustIngredient(t *testing.T, name, baseUnit string) *recipe.Ingredient {
	t.Helper()
	ing, err := recipe.NewIngredient(name, baseUnit)
	require.NoError(t, err)
	return ing
}
