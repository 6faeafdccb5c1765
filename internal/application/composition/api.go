// Package composition reconciles an in-memory recipe draft against the
// persisted composition records with the minimal set of create, update
// and delete operations.
package composition

import (
	"context"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/shopspring/decimal"
)

// IngredientLinkUpdate carries the fields an existing ingredient link
// is allowed to change.
type IngredientLinkUpdate struct {
	Quantity   float64          `json:"quantity"`
	Unit       string           `json:"unit"`
	BaseUnit   string           `json:"base_unit"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	SupplierID *int64           `json:"supplier_id"`
}

// SubRecipeLinkUpdate carries the fields an existing sub-recipe link is
// allowed to change.
type SubRecipeLinkUpdate struct {
	Quantity float64 `json:"quantity"`
}

// CreateRecipeRequest is the record the fork path sends to create the
// new version before copying the draft into it.
type CreateRecipeRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	OwnerID       string  `json:"owner_id"`
	Version       int     `json:"version"`
	RootID        *int64  `json:"root_id"`
	YieldQuantity float64 `json:"yield_quantity"`
	YieldUnit     string  `json:"yield_unit"`
}

// API is the collaborator surface the engine mutates through. The
// server implements it directly on top of the repositories; the HTTP
// client implements it over the REST endpoints. The engine never
// assumes it is the sole writer.
type API interface {
	ListIngredientLinks(ctx context.Context, recipeID int64) ([]recipe.RecipeIngredient, error)
	CreateIngredientLink(ctx context.Context, link recipe.RecipeIngredient) (*recipe.RecipeIngredient, error)
	UpdateIngredientLink(ctx context.Context, linkID int64, update IngredientLinkUpdate) error
	DeleteIngredientLink(ctx context.Context, linkID int64) error

	ListSubRecipeLinks(ctx context.Context, parentRecipeID int64) ([]recipe.SubRecipeLink, error)
	CreateSubRecipeLink(ctx context.Context, link recipe.SubRecipeLink) (*recipe.SubRecipeLink, error)
	UpdateSubRecipeLink(ctx context.Context, linkID int64, update SubRecipeLinkUpdate) error
	DeleteSubRecipeLink(ctx context.Context, linkID int64) error

	CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*recipe.Recipe, error)
}
