package recipe

import (
	"context"
	"time"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository is a mock implementation of recipe.Repository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id int64) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []int64) ([]recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recipe.Recipe, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindForks(ctx context.Context, id int64) ([]recipe.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Save(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockIngredientRepository is a mock implementation of
// recipe.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) FindByID(ctx context.Context, id int64) (*recipe.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]recipe.Ingredient, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]recipe.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]recipe.Ingredient, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]recipe.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) Save(ctx context.Context, ingredient *recipe.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIngredientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCompositionRepository is a mock implementation of
// recipe.CompositionRepository
type MockCompositionRepository struct {
	mock.Mock
}

func (m *MockCompositionRepository) ListIngredientLinks(ctx context.Context, recipeID int64) ([]recipe.RecipeIngredient, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).([]recipe.RecipeIngredient), args.Error(1)
}

func (m *MockCompositionRepository) FindIngredientLink(ctx context.Context, id int64) (*recipe.RecipeIngredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.RecipeIngredient), args.Error(1)
}

func (m *MockCompositionRepository) SaveIngredientLink(ctx context.Context, link *recipe.RecipeIngredient) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockCompositionRepository) DeleteIngredientLink(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompositionRepository) ListSubRecipeLinks(ctx context.Context, parentRecipeID int64) ([]recipe.SubRecipeLink, error) {
	args := m.Called(ctx, parentRecipeID)
	return args.Get(0).([]recipe.SubRecipeLink), args.Error(1)
}

func (m *MockCompositionRepository) FindSubRecipeLink(ctx context.Context, id int64) (*recipe.SubRecipeLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.SubRecipeLink), args.Error(1)
}

func (m *MockCompositionRepository) SaveSubRecipeLink(ctx context.Context, link *recipe.SubRecipeLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockCompositionRepository) DeleteSubRecipeLink(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompositionRepository) ChildRecipeIDs(ctx context.Context, recipeID int64) ([]int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).([]int64), args.Error(1)
}

// MockImageStore is a mock implementation of ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStore) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockImageStore) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockImageStore) PublicURL(storageKey string) string {
	args := m.Called(storageKey)
	return args.String(0)
}
