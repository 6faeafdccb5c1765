package recipe

import (
	"context"
	"time"

	"github.com/mise/backend/internal/domain/costing"
	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateIngredientRequest represents a request to create an ingredient
type CreateIngredientRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	BaseUnit        string           `json:"base_unit" binding:"required,min=1,max=20"`
	CostPerBaseUnit *decimal.Decimal `json:"cost_per_base_unit"`
}

// UpdateIngredientRequest represents a request to update an ingredient
type UpdateIngredientRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CostPerBaseUnit *decimal.Decimal `json:"cost_per_base_unit"`
	IsActive        *bool            `json:"is_active"`
}

// SupplierEntryRequest represents a supplier offer for an ingredient.
// CostPerUnit is derived from pack size and pack price, never accepted
// from the client.
type SupplierEntryRequest struct {
	SupplierID   string          `json:"supplier_id" binding:"required"`
	SupplierName string          `json:"supplier_name" binding:"required"`
	PackSize     float64         `json:"pack_size" binding:"gte=0"`
	PricePerPack decimal.Decimal `json:"price_per_pack"`
	PackUnit     string          `json:"pack_unit" binding:"required,min=1,max=20"`
	IsPreferred  bool            `json:"is_preferred"`
}

// SupplierEntryResponse represents a supplier offer in API responses
type SupplierEntryResponse struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	PackSize     float64         `json:"pack_size"`
	PricePerPack decimal.Decimal `json:"price_per_pack"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	PackUnit     string          `json:"pack_unit"`
	IsPreferred  bool            `json:"is_preferred"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// IngredientResponse represents an ingredient in API responses
type IngredientResponse struct {
	ID              int64                   `json:"id"`
	Name            string                  `json:"name"`
	BaseUnit        string                  `json:"base_unit"`
	CostPerBaseUnit *decimal.Decimal        `json:"cost_per_base_unit"`
	IsActive        bool                    `json:"is_active"`
	Suppliers       []SupplierEntryResponse `json:"suppliers"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToIngredientResponse converts a domain Ingredient to its response
func ToIngredientResponse(i *recipe.Ingredient) IngredientResponse {
	suppliers := make([]SupplierEntryResponse, len(i.Suppliers))
	for idx, entry := range i.Suppliers {
		suppliers[idx] = SupplierEntryResponse{
			SupplierID:   entry.SupplierID,
			SupplierName: entry.SupplierName,
			PackSize:     entry.PackSize,
			PricePerPack: entry.PricePerPack,
			CostPerUnit:  entry.CostPerUnit,
			PackUnit:     entry.PackUnit,
			IsPreferred:  entry.IsPreferred,
			LastUpdated:  entry.LastUpdated,
		}
	}
	return IngredientResponse{
		ID:              i.ID,
		Name:            i.Name,
		BaseUnit:        i.BaseUnit,
		CostPerBaseUnit: i.CostPerBaseUnit,
		IsActive:        i.IsActive,
		Suppliers:       suppliers,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToIngredientResponses converts a slice of ingredients to responses
func ToIngredientResponses(ingredients []recipe.Ingredient) []IngredientResponse {
	responses := make([]IngredientResponse, len(ingredients))
	for i := range ingredients {
		responses[i] = ToIngredientResponse(&ingredients[i])
	}
	return responses
}

// IngredientService handles the shared ingredient catalog: CRUD, cost
// updates and supplier entries. Ingredients are not owner-scoped.
type IngredientService struct {
	ingredientRepo recipe.IngredientRepository
}

// NewIngredientService creates a new IngredientService
func NewIngredientService(ingredientRepo recipe.IngredientRepository) *IngredientService {
	return &IngredientService{ingredientRepo: ingredientRepo}
}

// Create creates a new ingredient
func (s *IngredientService) Create(ctx context.Context, req CreateIngredientRequest) (*IngredientResponse, error) {
	ing, err := recipe.NewIngredient(req.Name, req.BaseUnit)
	if err != nil {
		return nil, err
	}
	if req.CostPerBaseUnit != nil {
		if err := ing.UpdateCost(*req.CostPerBaseUnit); err != nil {
			return nil, err
		}
	}

	if err := s.ingredientRepo.Save(ctx, ing); err != nil {
		return nil, err
	}

	resp := ToIngredientResponse(ing)
	return &resp, nil
}

// GetByID returns a single ingredient
func (s *IngredientService) GetByID(ctx context.Context, id int64) (*IngredientResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIngredientResponse(ing)
	return &resp, nil
}

// List returns ingredients matching the filter
func (s *IngredientService) List(ctx context.Context, filter shared.Filter) ([]IngredientResponse, int64, error) {
	ingredients, err := s.ingredientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ingredientRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToIngredientResponses(ingredients), total, nil
}

// Update modifies ingredient fields
func (s *IngredientService) Update(ctx context.Context, id int64, req UpdateIngredientRequest) (*IngredientResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Ingredient name cannot be empty")
		}
		ing.Name = *req.Name
		ing.Touch()
	}
	if req.CostPerBaseUnit != nil {
		if err := ing.UpdateCost(*req.CostPerBaseUnit); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		ing.IsActive = *req.IsActive
		ing.Touch()
	}

	if err := s.ingredientRepo.Save(ctx, ing); err != nil {
		return nil, err
	}

	resp := ToIngredientResponse(ing)
	return &resp, nil
}

// Deactivate soft-deletes an ingredient. Existing recipe links keep
// their denormalized pricing.
func (s *IngredientService) Deactivate(ctx context.Context, id int64) error {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	ing.Deactivate()
	return s.ingredientRepo.Save(ctx, ing)
}

// AddSupplier adds or replaces a supplier entry on an ingredient
func (s *IngredientService) AddSupplier(ctx context.Context, id int64, req SupplierEntryRequest) (*IngredientResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := recipe.SupplierEntry{
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		PackSize:     req.PackSize,
		PricePerPack: req.PricePerPack,
		CostPerUnit:  costing.UnitCost(req.PackSize, req.PricePerPack),
		PackUnit:     req.PackUnit,
		IsPreferred:  req.IsPreferred,
	}
	if err := ing.AddSupplier(entry); err != nil {
		return nil, err
	}

	if err := s.ingredientRepo.Save(ctx, ing); err != nil {
		return nil, err
	}

	resp := ToIngredientResponse(ing)
	return &resp, nil
}

// RemoveSupplier removes a supplier entry from an ingredient
func (s *IngredientService) RemoveSupplier(ctx context.Context, id int64, supplierID string) (*IngredientResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ing.RemoveSupplier(supplierID); err != nil {
		return nil, err
	}

	if err := s.ingredientRepo.Save(ctx, ing); err != nil {
		return nil, err
	}

	resp := ToIngredientResponse(ing)
	return &resp, nil
}

// SetPreferredSupplier marks one supplier entry as preferred
func (s *IngredientService) SetPreferredSupplier(ctx context.Context, id int64, supplierID string) (*IngredientResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ing.SetPreferredSupplier(supplierID); err != nil {
		return nil, err
	}

	if err := s.ingredientRepo.Save(ctx, ing); err != nil {
		return nil, err
	}

	resp := ToIngredientResponse(ing)
	return &resp, nil
}

// PreferredSupplier returns the preferred supplier entry, or nil when
// none is marked
func (s *IngredientService) PreferredSupplier(ctx context.Context, id int64) (*SupplierEntryResponse, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	preferred := ing.PreferredSupplier()
	if preferred == nil {
		return nil, nil
	}
	return &SupplierEntryResponse{
		SupplierID:   preferred.SupplierID,
		SupplierName: preferred.SupplierName,
		PackSize:     preferred.PackSize,
		PricePerPack: preferred.PricePerPack,
		CostPerUnit:  preferred.CostPerUnit,
		PackUnit:     preferred.PackUnit,
		IsPreferred:  preferred.IsPreferred,
		LastUpdated:  preferred.LastUpdated,
	}, nil
}
