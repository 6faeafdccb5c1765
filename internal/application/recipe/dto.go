package recipe

import (
	"time"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/versiongraph"
	"github.com/shopspring/decimal"
)

// CreateRecipeRequest represents a request to create a new recipe.
// RootID links the new recipe into an existing version lineage; remote
// reconciliation uses it to create fork targets. Version is only
// honored together with RootID and defaults to the root's version plus
// one.
type CreateRecipeRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=200"`
	Description   string   `json:"description" binding:"max=2000"`
	YieldQuantity *float64 `json:"yield_quantity" binding:"omitempty,gt=0"`
	YieldUnit     string   `json:"yield_unit" binding:"omitempty,min=1,max=20"`
	IsPublic      *bool    `json:"is_public"`
	Version       *int     `json:"version,omitempty" binding:"omitempty,gt=0"`
	RootID        *int64   `json:"root_id,omitempty" binding:"omitempty,gt=0"`
}

// UpdateRecipeRequest represents a request to update recipe metadata
type UpdateRecipeRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=2000"`
	YieldQuantity *float64 `json:"yield_quantity" binding:"omitempty,gt=0"`
	YieldUnit     *string  `json:"yield_unit" binding:"omitempty,min=1,max=20"`
	IsPublic      *bool    `json:"is_public"`
	Status        *string  `json:"status" binding:"omitempty,oneof=draft active archived"`
}

// RecipeResponse represents a recipe in API responses
type RecipeResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	YieldQuantity float64          `json:"yield_quantity"`
	YieldUnit     string           `json:"yield_unit"`
	Version       int              `json:"version"`
	RootID        *int64           `json:"root_id"`
	Status        string           `json:"status"`
	OwnerID       string           `json:"owner_id"`
	IsPublic      bool             `json:"is_public"`
	ImageURL      *string          `json:"image_url"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// IngredientLinkResponse represents one ingredient line of a recipe
type IngredientLinkResponse struct {
	ID           int64            `json:"id"`
	RecipeID     int64            `json:"recipe_id"`
	IngredientID int64            `json:"ingredient_id"`
	Quantity     float64          `json:"quantity"`
	Unit         string           `json:"unit"`
	BaseUnit     string           `json:"base_unit"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	SupplierID   *int64           `json:"supplier_id"`
	SortOrder    int              `json:"sort_order"`
}

// SubRecipeLinkResponse represents one nested recipe line
type SubRecipeLinkResponse struct {
	ID             int64   `json:"id"`
	ParentRecipeID int64   `json:"parent_recipe_id"`
	ChildRecipeID  int64   `json:"child_recipe_id"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Position       int     `json:"position"`
}

// VersionNodeResponse is one positioned node of the version graph
type VersionNodeResponse struct {
	Recipe    RecipeResponse `json:"recipe"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Depth     int            `json:"depth"`
	IsCurrent bool           `json:"is_current"`
}

// VersionGraphResponse is the positioned fork lineage of a recipe
type VersionGraphResponse struct {
	Nodes []VersionNodeResponse `json:"nodes"`
	Edges []versiongraph.Edge   `json:"edges"`
}

// ToRecipeResponse converts a domain Recipe to RecipeResponse
func ToRecipeResponse(r *recipe.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		Version:       r.Version,
		RootID:        r.RootID,
		Status:        string(r.Status),
		OwnerID:       r.OwnerID,
		IsPublic:      r.IsPublic,
		ImageURL:      r.ImageURL,
		CostPrice:     r.CostPrice,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToRecipeResponses converts a slice of domain Recipes to responses
func ToRecipeResponses(recipes []recipe.Recipe) []RecipeResponse {
	responses := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		responses[i] = ToRecipeResponse(&recipes[i])
	}
	return responses
}

// ToIngredientLinkResponse converts a domain link to its response
func ToIngredientLinkResponse(link *recipe.RecipeIngredient) IngredientLinkResponse {
	return IngredientLinkResponse{
		ID:           link.ID,
		RecipeID:     link.RecipeID,
		IngredientID: link.IngredientID,
		Quantity:     link.Quantity,
		Unit:         link.Unit,
		BaseUnit:     link.BaseUnit,
		UnitPrice:    link.UnitPrice,
		SupplierID:   link.SupplierID,
		SortOrder:    link.SortOrder,
	}
}

// ToIngredientLinkResponses converts a slice of links to responses
func ToIngredientLinkResponses(links []recipe.RecipeIngredient) []IngredientLinkResponse {
	responses := make([]IngredientLinkResponse, len(links))
	for i := range links {
		responses[i] = ToIngredientLinkResponse(&links[i])
	}
	return responses
}

// ToSubRecipeLinkResponse converts a domain link to its response
func ToSubRecipeLinkResponse(link *recipe.SubRecipeLink) SubRecipeLinkResponse {
	return SubRecipeLinkResponse{
		ID:             link.ID,
		ParentRecipeID: link.ParentRecipeID,
		ChildRecipeID:  link.ChildRecipeID,
		Quantity:       link.Quantity,
		Unit:           link.Unit,
		Position:       link.Position,
	}
}

// ToSubRecipeLinkResponses converts a slice of links to responses
func ToSubRecipeLinkResponses(links []recipe.SubRecipeLink) []SubRecipeLinkResponse {
	responses := make([]SubRecipeLinkResponse, len(links))
	for i := range links {
		responses[i] = ToSubRecipeLinkResponse(&links[i])
	}
	return responses
}

// ToVersionGraphResponse converts a built graph to its response
func ToVersionGraphResponse(g versiongraph.Graph) VersionGraphResponse {
	nodes := make([]VersionNodeResponse, len(g.Nodes))
	for i := range g.Nodes {
		nodes[i] = VersionNodeResponse{
			Recipe:    ToRecipeResponse(&g.Nodes[i].Recipe),
			X:         g.Nodes[i].X,
			Y:         g.Nodes[i].Y,
			Depth:     g.Nodes[i].Depth,
			IsCurrent: g.Nodes[i].IsCurrent,
		}
	}
	edges := g.Edges
	if edges == nil {
		edges = []versiongraph.Edge{}
	}
	return VersionGraphResponse{Nodes: nodes, Edges: edges}
}
