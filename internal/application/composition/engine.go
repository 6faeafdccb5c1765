package composition

import (
	"context"
	"strconv"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/staging"
	"github.com/shopspring/decimal"
)

// IngredientOperation is one pending write against the ingredient
// links. Exactly one of Create and Update is set.
type IngredientOperation struct {
	LinkID int64
	Create *recipe.RecipeIngredient
	Update *IngredientLinkUpdate
}

// SubRecipeOperation is one pending write against the sub-recipe
// links. Exactly one of Create and Update is set.
type SubRecipeOperation struct {
	LinkID int64
	Create *recipe.SubRecipeLink
	Update *SubRecipeLinkUpdate
}

// Plan is the computed difference between a draft and the persisted
// collections. Deletes run first and are fully drained before any
// write; writes then run in draft iteration order.
type Plan struct {
	RecipeID          int64
	IngredientDeletes []int64
	SubRecipeDeletes  []int64
	IngredientWrites  []IngredientOperation
	SubRecipeWrites   []SubRecipeOperation
}

// IsEmpty reports whether the plan carries no operations.
func (p Plan) IsEmpty() bool {
	return len(p.IngredientDeletes) == 0 &&
		len(p.SubRecipeDeletes) == 0 &&
		len(p.IngredientWrites) == 0 &&
		len(p.SubRecipeWrites) == 0
}

// Operations returns the total operation count.
func (p Plan) Operations() int {
	return len(p.IngredientDeletes) + len(p.SubRecipeDeletes) +
		len(p.IngredientWrites) + len(p.SubRecipeWrites)
}

// Engine diffs a staged draft against persisted composition records and
// applies the result through an API. It holds no state between calls.
type Engine struct {
	api API
}

// NewEngine creates a reconciliation engine over the given API.
func NewEngine(api API) *Engine {
	return &Engine{api: api}
}

// BuildPlan computes the minimal operation set bringing the persisted
// collections in line with the draft. Both sides are keyed by natural
// id: ingredient id for ingredient links, child recipe id for
// sub-recipe links. Unchanged rows keep their identity; an update is
// only planned when a mutable field actually differs.
func (e *Engine) BuildPlan(recipeID int64, staged []staging.StagedIngredient, stagedSubs []staging.StagedSubRecipe, server []recipe.RecipeIngredient, serverSubs []recipe.SubRecipeLink) Plan {
	plan := Plan{RecipeID: recipeID}

	serverByIngredient := make(map[int64]recipe.RecipeIngredient, len(server))
	for _, link := range server {
		serverByIngredient[link.IngredientID] = link
	}
	stagedIngredientIDs := make(map[int64]bool, len(staged))
	for _, entry := range staged {
		stagedIngredientIDs[entry.Ingredient.ID] = true
	}

	// Stale rows go first so that an add reusing the same natural key
	// in the same submit cannot collide with the row it replaces.
	for _, link := range server {
		if !stagedIngredientIDs[link.IngredientID] {
			plan.IngredientDeletes = append(plan.IngredientDeletes, link.ID)
		}
	}

	for _, entry := range staged {
		pricing := ResolvePricing(entry.Ingredient)
		existing, found := serverByIngredient[entry.Ingredient.ID]
		if !found {
			plan.IngredientWrites = append(plan.IngredientWrites, IngredientOperation{
				Create: &recipe.RecipeIngredient{
					RecipeID:     recipeID,
					IngredientID: entry.Ingredient.ID,
					Quantity:     entry.Quantity,
					Unit:         pricing.Unit,
					BaseUnit:     pricing.BaseUnit,
					UnitPrice:    &pricing.UnitPrice,
					SupplierID:   pricing.SupplierID,
				},
			})
			continue
		}
		update := IngredientLinkUpdate{
			Quantity:   entry.Quantity,
			Unit:       pricing.Unit,
			BaseUnit:   pricing.BaseUnit,
			UnitPrice:  &pricing.UnitPrice,
			SupplierID: pricing.SupplierID,
		}
		if ingredientLinkChanged(existing, update) {
			plan.IngredientWrites = append(plan.IngredientWrites, IngredientOperation{
				LinkID: existing.ID,
				Update: &update,
			})
		}
	}

	serverByChild := make(map[int64]recipe.SubRecipeLink, len(serverSubs))
	for _, link := range serverSubs {
		serverByChild[link.ChildRecipeID] = link
	}
	stagedChildIDs := make(map[int64]bool, len(stagedSubs))
	for _, entry := range stagedSubs {
		stagedChildIDs[entry.Recipe.ID] = true
	}

	for _, link := range serverSubs {
		if !stagedChildIDs[link.ChildRecipeID] {
			plan.SubRecipeDeletes = append(plan.SubRecipeDeletes, link.ID)
		}
	}

	for position, entry := range stagedSubs {
		existing, found := serverByChild[entry.Recipe.ID]
		if !found {
			plan.SubRecipeWrites = append(plan.SubRecipeWrites, SubRecipeOperation{
				Create: &recipe.SubRecipeLink{
					ParentRecipeID: recipeID,
					ChildRecipeID:  entry.Recipe.ID,
					Quantity:       entry.Quantity,
					Unit:           "portion",
					Position:       position,
				},
			})
			continue
		}
		if existing.Quantity != entry.Quantity {
			plan.SubRecipeWrites = append(plan.SubRecipeWrites, SubRecipeOperation{
				LinkID: existing.ID,
				Update: &SubRecipeLinkUpdate{Quantity: entry.Quantity},
			})
		}
	}

	return plan
}

// Execute applies a plan: the removal phase is fully drained before any
// create or update is issued, and every operation runs sequentially.
// There is no surrounding transaction; a failure leaves earlier
// operations applied and later ones unattempted.
func (e *Engine) Execute(ctx context.Context, plan Plan) error {
	for _, linkID := range plan.IngredientDeletes {
		if err := e.api.DeleteIngredientLink(ctx, linkID); err != nil {
			return err
		}
	}
	for _, linkID := range plan.SubRecipeDeletes {
		if err := e.api.DeleteSubRecipeLink(ctx, linkID); err != nil {
			return err
		}
	}

	for _, op := range plan.IngredientWrites {
		if op.Create != nil {
			if _, err := e.api.CreateIngredientLink(ctx, *op.Create); err != nil {
				return err
			}
			continue
		}
		if err := e.api.UpdateIngredientLink(ctx, op.LinkID, *op.Update); err != nil {
			return err
		}
	}
	for _, op := range plan.SubRecipeWrites {
		if op.Create != nil {
			if _, err := e.api.CreateSubRecipeLink(ctx, *op.Create); err != nil {
				return err
			}
			continue
		}
		if err := e.api.UpdateSubRecipeLink(ctx, op.LinkID, *op.Update); err != nil {
			return err
		}
	}

	return nil
}

// Reconcile fetches the persisted collections, diffs them against the
// draft and applies the result. Returns the executed plan so callers
// can report what changed.
func (e *Engine) Reconcile(ctx context.Context, recipeID int64, staged []staging.StagedIngredient, stagedSubs []staging.StagedSubRecipe) (Plan, error) {
	if recipeID == 0 {
		return Plan{}, shared.NewDomainError("INVALID_RECIPE", "Cannot reconcile an unsaved recipe")
	}

	server, err := e.api.ListIngredientLinks(ctx, recipeID)
	if err != nil {
		return Plan{}, err
	}
	serverSubs, err := e.api.ListSubRecipeLinks(ctx, recipeID)
	if err != nil {
		return Plan{}, err
	}

	plan := e.BuildPlan(recipeID, staged, stagedSubs, server, serverSubs)
	if err := e.Execute(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Fork creates a new recipe version from the parent and copies the
// draft into it. The target starts empty so the plan contains only
// creates; the new record carries version parent+1 and a root
// reference to the parent.
func (e *Engine) Fork(ctx context.Context, parent recipe.Recipe, md staging.Metadata, staged []staging.StagedIngredient, stagedSubs []staging.StagedSubRecipe) (*recipe.Recipe, error) {
	if parent.ID == 0 {
		return nil, shared.NewDomainError("INVALID_RECIPE", "Cannot fork an unsaved recipe")
	}

	name := md.Name
	if name == "" {
		name = parent.Name
	}
	rootID := parent.ID
	forked, err := e.api.CreateRecipe(ctx, CreateRecipeRequest{
		Name:          name + recipe.ForkNameSuffix,
		Description:   md.Description,
		OwnerID:       parent.OwnerID,
		Version:       parent.Version + 1,
		RootID:        &rootID,
		YieldQuantity: md.YieldQuantity,
		YieldUnit:     md.YieldUnit,
	})
	if err != nil {
		return nil, err
	}

	plan := e.BuildPlan(forked.ID, staged, stagedSubs, nil, nil)
	if err := e.Execute(ctx, plan); err != nil {
		return forked, err
	}
	return forked, nil
}

// ResolvedPricing is the price/unit/supplier triple attached to an
// ingredient link when it is written. The composition service uses the
// same resolution when a link is created outside a reconciliation
// pass.
type ResolvedPricing struct {
	Unit       string
	BaseUnit   string
	UnitPrice  decimal.Decimal
	SupplierID *int64
}

// ResolvePricing picks the preferred supplier's cost per unit and pack
// unit when one exists, falling back to the ingredient's own base unit
// and indicative cost (or zero). The supplier id accompanies the link
// only when it parses as an integer.
func ResolvePricing(ing recipe.Ingredient) ResolvedPricing {
	if preferred := ing.PreferredSupplier(); preferred != nil {
		pricing := ResolvedPricing{
			Unit:      preferred.PackUnit,
			BaseUnit:  ing.BaseUnit,
			UnitPrice: preferred.CostPerUnit,
		}
		if id, err := strconv.ParseInt(preferred.SupplierID, 10, 64); err == nil {
			pricing.SupplierID = &id
		}
		return pricing
	}

	pricing := ResolvedPricing{
		Unit:      ing.BaseUnit,
		BaseUnit:  ing.BaseUnit,
		UnitPrice: decimal.Zero,
	}
	if ing.CostPerBaseUnit != nil {
		pricing.UnitPrice = *ing.CostPerBaseUnit
	}
	return pricing
}

func ingredientLinkChanged(existing recipe.RecipeIngredient, update IngredientLinkUpdate) bool {
	if existing.Quantity != update.Quantity ||
		existing.Unit != update.Unit ||
		existing.BaseUnit != update.BaseUnit {
		return true
	}
	if !decimalPtrEqual(existing.UnitPrice, update.UnitPrice) {
		return true
	}
	return !int64PtrEqual(existing.SupplierID, update.SupplierID)
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
