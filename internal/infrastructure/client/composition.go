package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mise/backend/internal/application/composition"
	recipeapp "github.com/mise/backend/internal/application/recipe"
	"github.com/mise/backend/internal/domain/recipe"
)

// Client speaks the same composition surface the server implements
// in-process, so the reconciliation engine can run against a remote
// instance.
var _ composition.API = (*Client)(nil)

// ListIngredientLinks fetches the ingredient lines of a recipe
func (c *Client) ListIngredientLinks(ctx context.Context, recipeID int64) ([]recipe.RecipeIngredient, error) {
	var payload []recipeapp.IngredientLinkResponse
	path := fmt.Sprintf("/recipes/%d/ingredients", recipeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	links := make([]recipe.RecipeIngredient, len(payload))
	for i, item := range payload {
		links[i] = ingredientLinkFromResponse(item)
	}
	return links, nil
}

// CreateIngredientLink adds an ingredient line to a recipe
func (c *Client) CreateIngredientLink(ctx context.Context, link recipe.RecipeIngredient) (*recipe.RecipeIngredient, error) {
	req := recipeapp.CreateIngredientLinkRequest{
		RecipeID:     link.RecipeID,
		IngredientID: link.IngredientID,
		Quantity:     link.Quantity,
		Unit:         link.Unit,
		BaseUnit:     link.BaseUnit,
		UnitPrice:    link.UnitPrice,
		SupplierID:   link.SupplierID,
	}

	var payload recipeapp.IngredientLinkResponse
	path := fmt.Sprintf("/recipes/%d/ingredients", link.RecipeID)
	if err := c.do(ctx, http.MethodPost, path, req, &payload); err != nil {
		return nil, err
	}

	created := ingredientLinkFromResponse(payload)
	return &created, nil
}

// UpdateIngredientLink changes the mutable fields of an ingredient line
func (c *Client) UpdateIngredientLink(ctx context.Context, linkID int64, update composition.IngredientLinkUpdate) error {
	req := recipeapp.UpdateIngredientLinkRequest{
		Quantity:   update.Quantity,
		Unit:       update.Unit,
		BaseUnit:   update.BaseUnit,
		UnitPrice:  update.UnitPrice,
		SupplierID: update.SupplierID,
	}
	path := fmt.Sprintf("/composition/ingredients/%d", linkID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// DeleteIngredientLink removes an ingredient line
func (c *Client) DeleteIngredientLink(ctx context.Context, linkID int64) error {
	path := fmt.Sprintf("/composition/ingredients/%d", linkID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListSubRecipeLinks fetches the nested recipe lines of a recipe
func (c *Client) ListSubRecipeLinks(ctx context.Context, parentRecipeID int64) ([]recipe.SubRecipeLink, error) {
	var payload []recipeapp.SubRecipeLinkResponse
	path := fmt.Sprintf("/recipes/%d/sub-recipes", parentRecipeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	links := make([]recipe.SubRecipeLink, len(payload))
	for i, item := range payload {
		links[i] = subRecipeLinkFromResponse(item)
	}
	return links, nil
}

// CreateSubRecipeLink nests a recipe inside another
func (c *Client) CreateSubRecipeLink(ctx context.Context, link recipe.SubRecipeLink) (*recipe.SubRecipeLink, error) {
	req := recipeapp.CreateSubRecipeLinkRequest{
		ParentRecipeID: link.ParentRecipeID,
		ChildRecipeID:  link.ChildRecipeID,
		Quantity:       link.Quantity,
		Unit:           link.Unit,
	}

	var payload recipeapp.SubRecipeLinkResponse
	path := fmt.Sprintf("/recipes/%d/sub-recipes", link.ParentRecipeID)
	if err := c.do(ctx, http.MethodPost, path, req, &payload); err != nil {
		return nil, err
	}

	created := subRecipeLinkFromResponse(payload)
	return &created, nil
}

// UpdateSubRecipeLink changes the quantity of a sub-recipe line
func (c *Client) UpdateSubRecipeLink(ctx context.Context, linkID int64, update composition.SubRecipeLinkUpdate) error {
	req := recipeapp.UpdateSubRecipeLinkRequest{Quantity: update.Quantity}
	path := fmt.Sprintf("/composition/sub-recipes/%d", linkID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// DeleteSubRecipeLink removes a sub-recipe line
func (c *Client) DeleteSubRecipeLink(ctx context.Context, linkID int64) error {
	path := fmt.Sprintf("/composition/sub-recipes/%d", linkID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// CreateRecipe creates a recipe owned by the authenticated user. The
// server assigns ownership from the bearer token, so OwnerID is not
// transmitted. Version and RootID are sent when the request links the
// new recipe into a lineage, which keeps remote forks on version
// parent+1 with a root reference to the parent.
func (c *Client) CreateRecipe(ctx context.Context, req composition.CreateRecipeRequest) (*recipe.Recipe, error) {
	body := recipeapp.CreateRecipeRequest{
		Name:        req.Name,
		Description: req.Description,
		RootID:      req.RootID,
	}
	if req.YieldQuantity > 0 {
		body.YieldQuantity = &req.YieldQuantity
	}
	if req.YieldUnit != "" {
		body.YieldUnit = req.YieldUnit
	}
	if req.RootID != nil && req.Version > 0 {
		body.Version = &req.Version
	}

	var payload recipeapp.RecipeResponse
	if err := c.do(ctx, http.MethodPost, "/recipes", body, &payload); err != nil {
		return nil, err
	}
	return recipeFromResponse(payload), nil
}

func ingredientLinkFromResponse(r recipeapp.IngredientLinkResponse) recipe.RecipeIngredient {
	link := recipe.RecipeIngredient{
		RecipeID:     r.RecipeID,
		IngredientID: r.IngredientID,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		BaseUnit:     r.BaseUnit,
		UnitPrice:    r.UnitPrice,
		SupplierID:   r.SupplierID,
		SortOrder:    r.SortOrder,
	}
	link.ID = r.ID
	return link
}

func subRecipeLinkFromResponse(r recipeapp.SubRecipeLinkResponse) recipe.SubRecipeLink {
	link := recipe.SubRecipeLink{
		ParentRecipeID: r.ParentRecipeID,
		ChildRecipeID:  r.ChildRecipeID,
		Quantity:       r.Quantity,
		Unit:           r.Unit,
		Position:       r.Position,
	}
	link.ID = r.ID
	return link
}

func recipeFromResponse(r recipeapp.RecipeResponse) *recipe.Recipe {
	rec := &recipe.Recipe{
		Name:          r.Name,
		Description:   r.Description,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		Version:       r.Version,
		RootID:        r.RootID,
		Status:        recipe.Status(r.Status),
		OwnerID:       r.OwnerID,
		IsPublic:      r.IsPublic,
		ImageURL:      r.ImageURL,
		CostPrice:     r.CostPrice,
	}
	rec.ID = r.ID
	rec.CreatedAt = r.CreatedAt
	rec.UpdatedAt = r.UpdatedAt
	return rec
}
