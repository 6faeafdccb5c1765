package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	recipeapp "github.com/mise/backend/internal/application/recipe"
	"github.com/mise/backend/internal/interfaces/http/dto"
)

// RecipeHandler handles recipe CRUD, version lineage, costing and images
type RecipeHandler struct {
	BaseHandler
	recipes *recipeapp.RecipeService
	costing *recipeapp.CostingService
	images  *recipeapp.ImageService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(
	recipes *recipeapp.RecipeService,
	costing *recipeapp.CostingService,
	images *recipeapp.ImageService,
) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, costing: costing, images: images}
}

// RegisterRoutes registers recipe routes
func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/recipes")
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/fork", h.Fork)
		g.GET("/:id/versions", h.Versions)
		g.GET("/:id/versions/graph", h.VersionGraph)
		g.GET("/:id/cost", h.Cost)
		g.POST("/:id/cost/snapshot", h.CostSnapshot)
		g.POST("/:id/image/upload-url", h.RequestImageUpload)
		g.POST("/:id/image/confirm", h.ConfirmImageUpload)
		g.DELETE("/:id/image", h.RemoveImage)
	}
}

// Create creates a new recipe owned by the authenticated user
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req recipeapp.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.recipes.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns recipes visible to the authenticated user
func (h *RecipeHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.ToFilter()
	recipes, total, err := h.recipes.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, recipes, total, filter.Page, filter.PageSize)
}

// Get returns a single recipe
func (h *RecipeHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	resp, err := h.recipes.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates recipe metadata
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	var req recipeapp.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.recipes.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete archives a recipe
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Fork copies a recipe into a new version owned by the caller
func (h *RecipeHandler) Fork(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	resp, err := h.recipes.Fork(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Versions returns the recipe's version lineage
func (h *RecipeHandler) Versions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	versions, err := h.recipes.VersionTree(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, versions)
}

// VersionGraph returns the recipe's version lineage as a graph
func (h *RecipeHandler) VersionGraph(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	graph, err := h.recipes.VersionGraph(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, graph)
}

// Cost calculates the recipe's recursive cost breakdown
func (h *RecipeHandler) Cost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	result, err := h.costing.Calculate(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CostSnapshot recalculates and persists the recipe's cost price
func (h *RecipeHandler) CostSnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	resp, err := h.costing.PersistSnapshot(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ImageUploadRequest carries the content type for a presigned upload
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// RequestImageUpload returns a presigned URL for uploading a recipe image
func (h *RecipeHandler) RequestImageUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.images.RequestUpload(c.Request.Context(), userID, id, req.ContentType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmImageUpload records a completed image upload on the recipe
func (h *RecipeHandler) ConfirmImageUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	resp, err := h.images.ConfirmUpload(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, recipeapp.ErrImageNotUploaded) {
			h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Image has not been uploaded yet")
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveImage deletes the recipe's image
func (h *RecipeHandler) RemoveImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	if err := h.images.RemoveImage(c.Request.Context(), userID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
