package recipe

import (
	"context"

	"github.com/mise/backend/internal/domain/shared"
)

// Repository provides access to persisted recipes
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Recipe, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Recipe, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Recipe, error)
	// FindForks returns every recipe whose RootID equals the given id
	FindForks(ctx context.Context, id int64) ([]Recipe, error)
	Save(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// IngredientRepository provides access to persisted ingredients
type IngredientRepository interface {
	FindByID(ctx context.Context, id int64) (*Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Ingredient, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Ingredient, error)
	Save(ctx context.Context, ingredient *Ingredient) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CompositionRepository provides access to the two link tables forming a
// recipe's composition
type CompositionRepository interface {
	ListIngredientLinks(ctx context.Context, recipeID int64) ([]RecipeIngredient, error)
	FindIngredientLink(ctx context.Context, id int64) (*RecipeIngredient, error)
	SaveIngredientLink(ctx context.Context, link *RecipeIngredient) error
	DeleteIngredientLink(ctx context.Context, id int64) error

	ListSubRecipeLinks(ctx context.Context, parentRecipeID int64) ([]SubRecipeLink, error)
	FindSubRecipeLink(ctx context.Context, id int64) (*SubRecipeLink, error)
	SaveSubRecipeLink(ctx context.Context, link *SubRecipeLink) error
	DeleteSubRecipeLink(ctx context.Context, id int64) error

	// ChildRecipeIDs returns the direct sub-recipe ids of a recipe,
	// used by BFS cycle detection
	ChildRecipeIDs(ctx context.Context, recipeID int64) ([]int64, error)
}
