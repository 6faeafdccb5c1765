package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
)

func TestGormRecipeRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	rec := mustRecipe(t, "Bread", "user-1")
	require.NoError(t, repo.Save(ctx, rec))
	require.NotZero(t, rec.ID)

	got, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, 1, got.Version)
	assert.Nil(t, got.RootID)
	assert.Equal(t, recipe.StatusDraft, got.Status)
}

func TestGormRecipeRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)

	_, err := repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRecipeRepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	a := mustRecipe(t, "Bread", "user-1")
	b := mustRecipe(t, "Soup", "user-1")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.FindByIDs(ctx, []int64{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormRecipeRepository_FindForks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	parent := mustRecipe(t, "Bread", "user-1")
	require.NoError(t, repo.Save(ctx, parent))

	forkA := mustRecipe(t, "Bread (Fork)", "user-2")
	forkA.Version = 3
	forkA.RootID = &parent.ID
	require.NoError(t, repo.Save(ctx, forkA))

	forkB := mustRecipe(t, "Bread (Fork)", "user-3")
	forkB.Version = 2
	forkB.RootID = &parent.ID
	require.NoError(t, repo.Save(ctx, forkB))

	forks, err := repo.FindForks(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, forks, 2)
	// Ordered by version ascending
	assert.Equal(t, 2, forks[0].Version)
	assert.Equal(t, 3, forks[1].Version)
}

func TestGormRecipeRepository_FindAll_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	active := mustRecipe(t, "Bread", "user-1")
	active.Status = recipe.StatusActive
	require.NoError(t, repo.Save(ctx, active))

	draft := mustRecipe(t, "Soup", "user-2")
	require.NoError(t, repo.Save(ctx, draft))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(recipe.StatusActive)

	got, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bread", got[0].Name)

	ownerFilter := shared.DefaultFilter()
	ownerFilter.Filters["owner_id"] = "user-2"

	got, err = repo.FindAll(ctx, ownerFilter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Soup", got[0].Name)
}

func TestGormRecipeRepository_FindAll_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Sourdough Bread", "user-1")))
	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Tomato Soup", "user-1")))

	filter := shared.DefaultFilter()
	filter.Search = "Bread"

	got, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sourdough Bread", got[0].Name)
}

func TestGormRecipeRepository_FindAll_Sorting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Soup", "user-1")))
	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Bread", "user-1")))

	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	got, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bread", got[0].Name)
	assert.Equal(t, "Soup", got[1].Name)
}

func TestGormRecipeRepository_FindAll_RejectsUnknownSortColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Soup", "user-1")))
	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Bread", "user-1")))

	filter := shared.DefaultFilter()
	filter.OrderBy = "name; DROP TABLE recipes;--"
	filter.OrderDir = "asc"

	// Falls back to the default column instead of interpolating raw input
	got, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bread", got[0].Name)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormRecipeRepository_Count(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Bread", "user-1")))
	require.NoError(t, repo.Save(ctx, mustRecipe(t, "Soup", "user-1")))

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormRecipeRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	rec := mustRecipe(t, "Bread", "user-1")
	require.NoError(t, repo.Save(ctx, rec))

	require.NoError(t, repo.Delete(ctx, rec.ID))

	_, err := repo.FindByID(ctx, rec.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), shared.ErrNotFound)
}

func TestGormRecipeRepository_SaveUpdatesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecipeRepository(db)
	ctx := context.Background()

	rec := mustRecipe(t, "Bread", "user-1")
	require.NoError(t, repo.Save(ctx, rec))

	require.NoError(t, rec.Update("Country Bread", "slow ferment"))
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Country Bread", got.Name)
	assert.Equal(t, "slow ferment", got.Description)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
