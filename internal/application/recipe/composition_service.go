package recipe

import (
	"context"

	"github.com/mise/backend/internal/application/composition"
	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/staging"
	"github.com/shopspring/decimal"
)

// CostInvalidator drops cached costing results for a recipe after its
// composition changed
type CostInvalidator interface {
	Invalidate(ctx context.Context, recipeID int64)
}

// CreateIngredientLinkRequest represents a request to add an ingredient
// to a recipe's composition. Pricing fields are optional; when absent
// they are resolved from the ingredient's preferred supplier.
type CreateIngredientLinkRequest struct {
	RecipeID     int64            `json:"recipe_id" binding:"required"`
	IngredientID int64            `json:"ingredient_id" binding:"required"`
	Quantity     float64          `json:"quantity" binding:"gte=0"`
	Unit         string           `json:"unit"`
	BaseUnit     string           `json:"base_unit"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	SupplierID   *int64           `json:"supplier_id"`
}

// UpdateIngredientLinkRequest represents a request to update an
// existing ingredient link
type UpdateIngredientLinkRequest struct {
	Quantity   float64          `json:"quantity" binding:"gte=0"`
	Unit       string           `json:"unit" binding:"required"`
	BaseUnit   string           `json:"base_unit"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	SupplierID *int64           `json:"supplier_id"`
}

// CreateSubRecipeLinkRequest represents a request to nest a recipe
// inside another
type CreateSubRecipeLinkRequest struct {
	ParentRecipeID int64   `json:"parent_recipe_id" binding:"required"`
	ChildRecipeID  int64   `json:"child_recipe_id" binding:"required"`
	Quantity       float64 `json:"quantity" binding:"gte=0"`
	Unit           string  `json:"unit"`
}

// UpdateSubRecipeLinkRequest represents a request to update a
// sub-recipe link
type UpdateSubRecipeLinkRequest struct {
	Quantity float64 `json:"quantity" binding:"gte=0"`
}

// DraftEntry is one line of a submitted draft, keyed by natural id
type DraftEntry struct {
	ID       int64   `json:"id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
}

// DraftMetadata carries the scalar fields of a submitted draft
type DraftMetadata struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	YieldQuantity float64 `json:"yield_quantity"`
	YieldUnit     string  `json:"yield_unit"`
}

// SubmitDraftRequest is a whole-composition submit. With Fork set the
// draft is copied onto a brand-new version instead of mutating the
// target recipe.
type SubmitDraftRequest struct {
	Metadata    DraftMetadata `json:"metadata"`
	Ingredients []DraftEntry  `json:"ingredients" binding:"dive"`
	SubRecipes  []DraftEntry  `json:"sub_recipes" binding:"dive"`
	Fork        bool          `json:"fork"`
}

// SubmitDraftResponse reports what a draft submit did. Operations
// counts link creates, updates and deletes only; the recipe created by
// a fork submit is reported through Recipe, not the count.
type SubmitDraftResponse struct {
	Recipe     *RecipeResponse `json:"recipe,omitempty"`
	Operations int             `json:"operations"`
	Deletes    int             `json:"deletes"`
	Writes     int             `json:"writes"`
}

// CompositionService handles the composition link CRUD, cycle
// prevention and draft reconciliation for recipes.
type CompositionService struct {
	recipeRepo      recipe.Repository
	ingredientRepo  recipe.IngredientRepository
	compositionRepo recipe.CompositionRepository
	engine          *composition.Engine
	invalidator     CostInvalidator
}

// NewCompositionService creates a new CompositionService. The
// invalidator may be nil when no cost cache is wired.
func NewCompositionService(
	recipeRepo recipe.Repository,
	ingredientRepo recipe.IngredientRepository,
	compositionRepo recipe.CompositionRepository,
	invalidator CostInvalidator,
) *CompositionService {
	api := &repositoryAPI{recipeRepo: recipeRepo, compositionRepo: compositionRepo}
	return &CompositionService{
		recipeRepo:      recipeRepo,
		ingredientRepo:  ingredientRepo,
		compositionRepo: compositionRepo,
		engine:          composition.NewEngine(api),
		invalidator:     invalidator,
	}
}

// ListIngredientLinks returns the ingredient lines of a recipe
func (s *CompositionService) ListIngredientLinks(ctx context.Context, userID string, recipeID int64) ([]IngredientLinkResponse, error) {
	if _, err := s.visibleRecipe(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	links, err := s.compositionRepo.ListIngredientLinks(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return ToIngredientLinkResponses(links), nil
}

// CreateIngredientLink adds an ingredient to a recipe's composition.
// Missing pricing fields are resolved from the ingredient's preferred
// supplier, or its indicative base cost.
func (s *CompositionService) CreateIngredientLink(ctx context.Context, userID string, req CreateIngredientLinkRequest) (*IngredientLinkResponse, error) {
	if _, err := s.ownedRecipe(ctx, userID, req.RecipeID); err != nil {
		return nil, err
	}

	ing, err := s.ingredientRepo.FindByID(ctx, req.IngredientID)
	if err != nil {
		return nil, err
	}

	unit := req.Unit
	baseUnit := req.BaseUnit
	unitPrice := req.UnitPrice
	supplierID := req.SupplierID
	if unit == "" || unitPrice == nil {
		pricing := composition.ResolvePricing(*ing)
		if unit == "" {
			unit = pricing.Unit
		}
		if baseUnit == "" {
			baseUnit = pricing.BaseUnit
		}
		if unitPrice == nil {
			price := pricing.UnitPrice
			unitPrice = &price
			supplierID = pricing.SupplierID
		}
	}
	if baseUnit == "" {
		baseUnit = ing.BaseUnit
	}

	link, err := recipe.NewRecipeIngredient(req.RecipeID, req.IngredientID, req.Quantity, unit)
	if err != nil {
		return nil, err
	}
	link.BaseUnit = baseUnit
	link.UnitPrice = unitPrice
	link.SupplierID = supplierID

	existing, err := s.compositionRepo.ListIngredientLinks(ctx, req.RecipeID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.IngredientID == req.IngredientID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Ingredient is already part of this recipe")
		}
	}
	link.SortOrder = len(existing)

	if err := s.compositionRepo.SaveIngredientLink(ctx, link); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.RecipeID)

	resp := ToIngredientLinkResponse(link)
	return &resp, nil
}

// UpdateIngredientLink updates the mutable fields of an ingredient link
func (s *CompositionService) UpdateIngredientLink(ctx context.Context, userID string, linkID int64, req UpdateIngredientLinkRequest) (*IngredientLinkResponse, error) {
	link, err := s.compositionRepo.FindIngredientLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedRecipe(ctx, userID, link.RecipeID); err != nil {
		return nil, err
	}

	baseUnit := req.BaseUnit
	if baseUnit == "" {
		baseUnit = link.BaseUnit
	}
	if err := link.UpdatePricing(req.Quantity, req.Unit, baseUnit, req.UnitPrice, req.SupplierID); err != nil {
		return nil, err
	}

	if err := s.compositionRepo.SaveIngredientLink(ctx, link); err != nil {
		return nil, err
	}
	s.invalidate(ctx, link.RecipeID)

	resp := ToIngredientLinkResponse(link)
	return &resp, nil
}

// DeleteIngredientLink removes an ingredient link by its row id
func (s *CompositionService) DeleteIngredientLink(ctx context.Context, userID string, linkID int64) error {
	link, err := s.compositionRepo.FindIngredientLink(ctx, linkID)
	if err != nil {
		return err
	}
	if _, err := s.ownedRecipe(ctx, userID, link.RecipeID); err != nil {
		return err
	}

	if err := s.compositionRepo.DeleteIngredientLink(ctx, linkID); err != nil {
		return err
	}
	s.invalidate(ctx, link.RecipeID)
	return nil
}

// ListSubRecipeLinks returns the nested recipe lines of a recipe
func (s *CompositionService) ListSubRecipeLinks(ctx context.Context, userID string, recipeID int64) ([]SubRecipeLinkResponse, error) {
	if _, err := s.visibleRecipe(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	links, err := s.compositionRepo.ListSubRecipeLinks(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return ToSubRecipeLinkResponses(links), nil
}

// CreateSubRecipeLink nests a child recipe inside a parent. The link is
// rejected when it would close a containment cycle at any depth.
func (s *CompositionService) CreateSubRecipeLink(ctx context.Context, userID string, req CreateSubRecipeLinkRequest) (*SubRecipeLinkResponse, error) {
	if _, err := s.ownedRecipe(ctx, userID, req.ParentRecipeID); err != nil {
		return nil, err
	}
	if _, err := s.recipeRepo.FindByID(ctx, req.ChildRecipeID); err != nil {
		return nil, err
	}

	if err := s.checkCycle(ctx, req.ParentRecipeID, req.ChildRecipeID); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "portion"
	}
	link, err := recipe.NewSubRecipeLink(req.ParentRecipeID, req.ChildRecipeID, req.Quantity, unit)
	if err != nil {
		return nil, err
	}

	existing, err := s.compositionRepo.ListSubRecipeLinks(ctx, req.ParentRecipeID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.ChildRecipeID == req.ChildRecipeID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Recipe is already a component of this recipe")
		}
	}
	link.Position = len(existing)

	if err := s.compositionRepo.SaveSubRecipeLink(ctx, link); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.ParentRecipeID)

	resp := ToSubRecipeLinkResponse(link)
	return &resp, nil
}

// UpdateSubRecipeLink updates the quantity of a sub-recipe link
func (s *CompositionService) UpdateSubRecipeLink(ctx context.Context, userID string, linkID int64, req UpdateSubRecipeLinkRequest) (*SubRecipeLinkResponse, error) {
	link, err := s.compositionRepo.FindSubRecipeLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedRecipe(ctx, userID, link.ParentRecipeID); err != nil {
		return nil, err
	}

	if err := link.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.compositionRepo.SaveSubRecipeLink(ctx, link); err != nil {
		return nil, err
	}
	s.invalidate(ctx, link.ParentRecipeID)

	resp := ToSubRecipeLinkResponse(link)
	return &resp, nil
}

// DeleteSubRecipeLink removes a sub-recipe link by its row id
func (s *CompositionService) DeleteSubRecipeLink(ctx context.Context, userID string, linkID int64) error {
	link, err := s.compositionRepo.FindSubRecipeLink(ctx, linkID)
	if err != nil {
		return err
	}
	if _, err := s.ownedRecipe(ctx, userID, link.ParentRecipeID); err != nil {
		return err
	}

	if err := s.compositionRepo.DeleteSubRecipeLink(ctx, linkID); err != nil {
		return err
	}
	s.invalidate(ctx, link.ParentRecipeID)
	return nil
}

// SubmitDraft reconciles a whole submitted draft against the persisted
// composition in one pass. With Fork set the draft instead lands on a
// brand-new version of the recipe, leaving the original untouched.
func (s *CompositionService) SubmitDraft(ctx context.Context, userID string, recipeID int64, req SubmitDraftRequest) (*SubmitDraftResponse, error) {
	target, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	staged, stagedSubs, err := s.stageDraft(ctx, recipeID, req)
	if err != nil {
		return nil, err
	}

	if req.Fork {
		md := staging.Metadata{
			Name:          req.Metadata.Name,
			Description:   req.Metadata.Description,
			YieldQuantity: req.Metadata.YieldQuantity,
			YieldUnit:     req.Metadata.YieldUnit,
		}
		if md.YieldQuantity == 0 {
			md.YieldQuantity = target.YieldQuantity
		}
		if md.YieldUnit == "" {
			md.YieldUnit = target.YieldUnit
		}
		forked, err := s.engine.Fork(ctx, *target, md, staged, stagedSubs)
		if err != nil {
			return nil, err
		}
		resp := ToRecipeResponse(forked)
		return &SubmitDraftResponse{
			Recipe:     &resp,
			Operations: len(staged) + len(stagedSubs),
			Writes:     len(staged) + len(stagedSubs),
		}, nil
	}

	for _, entry := range stagedSubs {
		if err := s.checkCycle(ctx, recipeID, entry.Recipe.ID); err != nil {
			return nil, err
		}
	}

	plan, err := s.engine.Reconcile(ctx, recipeID, staged, stagedSubs)
	if err != nil {
		return nil, err
	}
	if !plan.IsEmpty() {
		s.invalidate(ctx, recipeID)
	}

	return &SubmitDraftResponse{
		Operations: plan.Operations(),
		Deletes:    len(plan.IngredientDeletes) + len(plan.SubRecipeDeletes),
		Writes:     len(plan.IngredientWrites) + len(plan.SubRecipeWrites),
	}, nil
}

// stageDraft resolves the draft's natural ids into staged entries the
// engine can diff, preserving the submitted order.
func (s *CompositionService) stageDraft(ctx context.Context, recipeID int64, req SubmitDraftRequest) ([]staging.StagedIngredient, []staging.StagedSubRecipe, error) {
	ingredientIDs := make([]int64, len(req.Ingredients))
	for i, entry := range req.Ingredients {
		ingredientIDs[i] = entry.ID
	}
	ingredients, err := s.ingredientRepo.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	ingredientsByID := make(map[int64]recipe.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientsByID[ing.ID] = ing
	}

	model := staging.NewModel(recipeID)
	for _, entry := range req.Ingredients {
		ing, ok := ingredientsByID[entry.ID]
		if !ok {
			return nil, nil, shared.NewDomainError("INVALID_INGREDIENT", "Draft references an unknown ingredient")
		}
		localID := model.AddIngredient(ing)
		model.SetQuantity(localID, entry.Quantity)
	}

	childIDs := make([]int64, len(req.SubRecipes))
	for i, entry := range req.SubRecipes {
		childIDs[i] = entry.ID
	}
	children, err := s.recipeRepo.FindByIDs(ctx, childIDs)
	if err != nil {
		return nil, nil, err
	}
	childrenByID := make(map[int64]recipe.Recipe, len(children))
	for _, child := range children {
		childrenByID[child.ID] = child
	}

	for _, entry := range req.SubRecipes {
		child, ok := childrenByID[entry.ID]
		if !ok {
			return nil, nil, shared.NewDomainError("INVALID_SUB_RECIPE", "Draft references an unknown recipe")
		}
		localID, err := model.AddSubRecipe(child)
		if err != nil {
			return nil, nil, err
		}
		model.SetQuantity(localID, entry.Quantity)
	}

	return model.Ingredients(), model.SubRecipes(), nil
}

// checkCycle rejects a parent/child pairing when the parent is
// reachable from the child through existing sub-recipe links. Traversal
// is breadth-first with a visited set, so diamond shapes terminate.
func (s *CompositionService) checkCycle(ctx context.Context, parentID, childID int64) error {
	if parentID == childID {
		return shared.ErrCycleDetected
	}

	visited := map[int64]bool{childID: true}
	queue := []int64{childID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next, err := s.compositionRepo.ChildRecipeIDs(ctx, current)
		if err != nil {
			return err
		}
		for _, id := range next {
			if id == parentID {
				return shared.ErrCycleDetected
			}
			if !visited[id] {
				visited[id] = true
				queue = append(queue, id)
			}
		}
	}
	return nil
}

func (s *CompositionService) visibleRecipe(ctx context.Context, userID string, recipeID int64) (*recipe.Recipe, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !r.IsVisibleTo(userID) {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (s *CompositionService) ownedRecipe(ctx context.Context, userID string, recipeID int64) (*recipe.Recipe, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != userID {
		return nil, shared.ErrForbidden
	}
	return r, nil
}

func (s *CompositionService) invalidate(ctx context.Context, recipeID int64) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, recipeID)
	}
}

// repositoryAPI implements the engine's API directly over the
// repositories, for server-side reconciliation
type repositoryAPI struct {
	recipeRepo      recipe.Repository
	compositionRepo recipe.CompositionRepository
}

func (a *repositoryAPI) ListIngredientLinks(ctx context.Context, recipeID int64) ([]recipe.RecipeIngredient, error) {
	return a.compositionRepo.ListIngredientLinks(ctx, recipeID)
}

func (a *repositoryAPI) CreateIngredientLink(ctx context.Context, link recipe.RecipeIngredient) (*recipe.RecipeIngredient, error) {
	if err := a.compositionRepo.SaveIngredientLink(ctx, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (a *repositoryAPI) UpdateIngredientLink(ctx context.Context, linkID int64, update composition.IngredientLinkUpdate) error {
	link, err := a.compositionRepo.FindIngredientLink(ctx, linkID)
	if err != nil {
		return err
	}
	if err := link.UpdatePricing(update.Quantity, update.Unit, update.BaseUnit, update.UnitPrice, update.SupplierID); err != nil {
		return err
	}
	return a.compositionRepo.SaveIngredientLink(ctx, link)
}

func (a *repositoryAPI) DeleteIngredientLink(ctx context.Context, linkID int64) error {
	return a.compositionRepo.DeleteIngredientLink(ctx, linkID)
}

func (a *repositoryAPI) ListSubRecipeLinks(ctx context.Context, parentRecipeID int64) ([]recipe.SubRecipeLink, error) {
	return a.compositionRepo.ListSubRecipeLinks(ctx, parentRecipeID)
}

func (a *repositoryAPI) CreateSubRecipeLink(ctx context.Context, link recipe.SubRecipeLink) (*recipe.SubRecipeLink, error) {
	if err := a.compositionRepo.SaveSubRecipeLink(ctx, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (a *repositoryAPI) UpdateSubRecipeLink(ctx context.Context, linkID int64, update composition.SubRecipeLinkUpdate) error {
	link, err := a.compositionRepo.FindSubRecipeLink(ctx, linkID)
	if err != nil {
		return err
	}
	if err := link.SetQuantity(update.Quantity); err != nil {
		return err
	}
	return a.compositionRepo.SaveSubRecipeLink(ctx, link)
}

func (a *repositoryAPI) DeleteSubRecipeLink(ctx context.Context, linkID int64) error {
	return a.compositionRepo.DeleteSubRecipeLink(ctx, linkID)
}

func (a *repositoryAPI) CreateRecipe(ctx context.Context, req composition.CreateRecipeRequest) (*recipe.Recipe, error) {
	r, err := recipe.NewRecipe(req.Name, req.OwnerID)
	if err != nil {
		return nil, err
	}
	r.Version = req.Version
	r.RootID = req.RootID
	if req.Description != "" {
		if err := r.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.YieldQuantity > 0 {
		if err := r.SetYield(req.YieldQuantity, req.YieldUnit); err != nil {
			return nil, err
		}
	}

	if err := a.recipeRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
