package handler

import (
	"github.com/gin-gonic/gin"
	recipeapp "github.com/mise/backend/internal/application/recipe"
)

// CompositionHandler handles ingredient and sub-recipe links plus
// whole-composition draft submits
type CompositionHandler struct {
	BaseHandler
	service *recipeapp.CompositionService
}

// NewCompositionHandler creates a new composition handler
func NewCompositionHandler(service *recipeapp.CompositionService) *CompositionHandler {
	return &CompositionHandler{service: service}
}

// RegisterRoutes registers composition routes
func (h *CompositionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/recipes/:id")
	{
		g.GET("/ingredients", h.ListIngredientLinks)
		g.POST("/ingredients", h.CreateIngredientLink)
		g.GET("/sub-recipes", h.ListSubRecipeLinks)
		g.POST("/sub-recipes", h.CreateSubRecipeLink)
		g.POST("/composition", h.SubmitDraft)
	}

	links := rg.Group("/composition")
	{
		links.PUT("/ingredients/:link_id", h.UpdateIngredientLink)
		links.DELETE("/ingredients/:link_id", h.DeleteIngredientLink)
		links.PUT("/sub-recipes/:link_id", h.UpdateSubRecipeLink)
		links.DELETE("/sub-recipes/:link_id", h.DeleteSubRecipeLink)
	}
}

// ListIngredientLinks returns a recipe's ingredient lines
func (h *CompositionHandler) ListIngredientLinks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	links, err := h.service.ListIngredientLinks(c.Request.Context(), userID, recipeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, links)
}

// CreateIngredientLink adds an ingredient line to a recipe
func (h *CompositionHandler) CreateIngredientLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	var req recipeapp.CreateIngredientLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.RecipeID = recipeID

	link, err := h.service.CreateIngredientLink(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, link)
}

// UpdateIngredientLink updates an ingredient line
func (h *CompositionHandler) UpdateIngredientLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	linkID, err := pathID(c, "link_id")
	if err != nil {
		h.BadRequest(c, "Invalid link ID")
		return
	}

	var req recipeapp.UpdateIngredientLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	link, err := h.service.UpdateIngredientLink(c.Request.Context(), userID, linkID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, link)
}

// DeleteIngredientLink removes an ingredient line
func (h *CompositionHandler) DeleteIngredientLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	linkID, err := pathID(c, "link_id")
	if err != nil {
		h.BadRequest(c, "Invalid link ID")
		return
	}

	if err := h.service.DeleteIngredientLink(c.Request.Context(), userID, linkID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListSubRecipeLinks returns a recipe's nested sub-recipes
func (h *CompositionHandler) ListSubRecipeLinks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	links, err := h.service.ListSubRecipeLinks(c.Request.Context(), userID, recipeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, links)
}

// CreateSubRecipeLink nests a recipe inside another
func (h *CompositionHandler) CreateSubRecipeLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	var req recipeapp.CreateSubRecipeLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.ParentRecipeID = recipeID

	link, err := h.service.CreateSubRecipeLink(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, link)
}

// UpdateSubRecipeLink updates a sub-recipe line
func (h *CompositionHandler) UpdateSubRecipeLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	linkID, err := pathID(c, "link_id")
	if err != nil {
		h.BadRequest(c, "Invalid link ID")
		return
	}

	var req recipeapp.UpdateSubRecipeLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	link, err := h.service.UpdateSubRecipeLink(c.Request.Context(), userID, linkID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, link)
}

// DeleteSubRecipeLink removes a sub-recipe line
func (h *CompositionHandler) DeleteSubRecipeLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	linkID, err := pathID(c, "link_id")
	if err != nil {
		h.BadRequest(c, "Invalid link ID")
		return
	}

	if err := h.service.DeleteSubRecipeLink(c.Request.Context(), userID, linkID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SubmitDraft reconciles a whole-composition draft against a recipe
func (h *CompositionHandler) SubmitDraft(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	var req recipeapp.SubmitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.SubmitDraft(c.Request.Context(), userID, recipeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
