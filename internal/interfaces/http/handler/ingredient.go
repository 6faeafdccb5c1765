package handler

import (
	"github.com/gin-gonic/gin"
	recipeapp "github.com/mise/backend/internal/application/recipe"
	"github.com/mise/backend/internal/interfaces/http/dto"
)

// IngredientHandler handles ingredient CRUD and supplier management
type IngredientHandler struct {
	BaseHandler
	service *recipeapp.IngredientService
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(service *recipeapp.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service}
}

// RegisterRoutes registers ingredient routes
func (h *IngredientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/ingredients")
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Deactivate)
		g.POST("/:id/suppliers", h.AddSupplier)
		g.DELETE("/:id/suppliers/:supplier_id", h.RemoveSupplier)
		g.PUT("/:id/suppliers/:supplier_id/preferred", h.SetPreferredSupplier)
		g.GET("/:id/suppliers/preferred", h.PreferredSupplier)
	}
}

// Create registers a new ingredient
func (h *IngredientHandler) Create(c *gin.Context) {
	var req recipeapp.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns ingredients with pagination
func (h *IngredientHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.ToFilter()
	ingredients, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, ingredients, total, filter.Page, filter.PageSize)
}

// Get returns a single ingredient
func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates ingredient attributes
func (h *IngredientHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	var req recipeapp.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks an ingredient inactive
func (h *IngredientHandler) Deactivate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddSupplier attaches a supplier entry to an ingredient
func (h *IngredientHandler) AddSupplier(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	var req recipeapp.SupplierEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AddSupplier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveSupplier detaches a supplier entry from an ingredient
func (h *IngredientHandler) RemoveSupplier(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	resp, err := h.service.RemoveSupplier(c.Request.Context(), id, c.Param("supplier_id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetPreferredSupplier marks one supplier entry as preferred
func (h *IngredientHandler) SetPreferredSupplier(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	resp, err := h.service.SetPreferredSupplier(c.Request.Context(), id, c.Param("supplier_id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PreferredSupplier returns the preferred supplier entry, or null
func (h *IngredientHandler) PreferredSupplier(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	resp, err := h.service.PreferredSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
