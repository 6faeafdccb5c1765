// Package staging holds the in-memory draft of a recipe's composition
// while it is being edited. The model is pure data plus mutation
// operations; it performs no I/O and knows nothing about persistence.
package staging

import (
	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
)

// Position is a canvas coordinate for a staged item
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StagedIngredient is a draft entry wrapping an ingredient. LocalID is a
// client-generated identity unique for the editing session; it never
// leaves the session and is unrelated to persisted row ids.
type StagedIngredient struct {
	LocalID    uuid.UUID
	Ingredient recipe.Ingredient
	Quantity   float64
	Position   Position
}

// StagedSubRecipe is a draft entry wrapping a child recipe
type StagedSubRecipe struct {
	LocalID  uuid.UUID
	Recipe   recipe.Recipe
	Quantity float64
	Position Position
}

// Metadata is the scalar recipe metadata carried alongside the draft
// collections and compared field-by-field for change detection
type Metadata struct {
	Name          string
	Description   string
	YieldQuantity float64
	YieldUnit     string
}

// DefaultMetadata returns the metadata of an empty draft
func DefaultMetadata() Metadata {
	return Metadata{
		YieldQuantity: 1,
		YieldUnit:     "portion",
	}
}

// Model is the draft being edited. Entries keep insertion order; that
// order is the iteration order reconciliation uses when it applies
// creates and updates.
type Model struct {
	recipeID    int64
	metadata    Metadata
	ingredients []StagedIngredient
	subRecipes  []StagedSubRecipe

	// snapshot is the comparison value for change detection; the loaded
	// slices keep the full entries so Reset can rebuild the draft even
	// after removals.
	snapshot          *State
	loadedIngredients []StagedIngredient
	loadedSubRecipes  []StagedSubRecipe
}

// NewModel creates an empty draft for the recipe with the given id.
// Pass 0 when drafting a recipe that has not been persisted yet.
func NewModel(recipeID int64) *Model {
	return &Model{
		recipeID: recipeID,
		metadata: DefaultMetadata(),
	}
}

// RecipeID returns the id of the recipe being edited
func (m *Model) RecipeID() int64 {
	return m.recipeID
}

// Metadata returns the current scalar metadata
func (m *Model) Metadata() Metadata {
	return m.metadata
}

// SetMetadata replaces the scalar metadata
func (m *Model) SetMetadata(md Metadata) {
	m.metadata = md
}

// Ingredients returns the staged ingredients in draft order
func (m *Model) Ingredients() []StagedIngredient {
	out := make([]StagedIngredient, len(m.ingredients))
	copy(out, m.ingredients)
	return out
}

// SubRecipes returns the staged sub-recipes in draft order
func (m *Model) SubRecipes() []StagedSubRecipe {
	out := make([]StagedSubRecipe, len(m.subRecipes))
	copy(out, m.subRecipes)
	return out
}

// AddIngredient stages an ingredient. A repeated add of an ingredient
// already staged bumps its quantity by one instead of inserting a
// duplicate, matching repeated drag actions. Returns the local id of the
// affected entry. Never fails.
func (m *Model) AddIngredient(ing recipe.Ingredient) uuid.UUID {
	for idx := range m.ingredients {
		if m.ingredients[idx].Ingredient.ID == ing.ID {
			m.ingredients[idx].Quantity++
			return m.ingredients[idx].LocalID
		}
	}

	entry := StagedIngredient{
		LocalID:    uuid.New(),
		Ingredient: ing,
		Quantity:   1,
	}
	m.ingredients = append(m.ingredients, entry)
	return entry.LocalID
}

// AddSubRecipe stages a child recipe with the same bump/insert semantics,
// keyed on the child recipe id. Staging the edited recipe as its own
// child is rejected; deeper cycles through persisted links are checked by
// the composition service before the add is offered.
func (m *Model) AddSubRecipe(child recipe.Recipe) (uuid.UUID, error) {
	if m.recipeID != 0 && child.ID == m.recipeID {
		return uuid.Nil, shared.ErrCycleDetected
	}

	for idx := range m.subRecipes {
		if m.subRecipes[idx].Recipe.ID == child.ID {
			m.subRecipes[idx].Quantity++
			return m.subRecipes[idx].LocalID, nil
		}
	}

	entry := StagedSubRecipe{
		LocalID:  uuid.New(),
		Recipe:   child,
		Quantity: 1,
	}
	m.subRecipes = append(m.subRecipes, entry)
	return entry.LocalID, nil
}

// RemoveIngredient deletes the staged entry with the given local id.
// Removing an unknown id is a no-op.
func (m *Model) RemoveIngredient(localID uuid.UUID) {
	for idx := range m.ingredients {
		if m.ingredients[idx].LocalID == localID {
			m.ingredients = append(m.ingredients[:idx], m.ingredients[idx+1:]...)
			return
		}
	}
}

// RemoveSubRecipe deletes the staged entry with the given local id.
// Removing an unknown id is a no-op.
func (m *Model) RemoveSubRecipe(localID uuid.UUID) {
	for idx := range m.subRecipes {
		if m.subRecipes[idx].LocalID == localID {
			m.subRecipes = append(m.subRecipes[:idx], m.subRecipes[idx+1:]...)
			return
		}
	}
}

// SetQuantity sets the quantity of the staged entry (ingredient or
// sub-recipe) with the given local id. Negative values are clamped to
// zero, the single enforcement point for the minimum-quantity policy.
// Unknown ids are a no-op.
func (m *Model) SetQuantity(localID uuid.UUID, quantity float64) {
	if quantity < 0 {
		quantity = 0
	}
	for idx := range m.ingredients {
		if m.ingredients[idx].LocalID == localID {
			m.ingredients[idx].Quantity = quantity
			return
		}
	}
	for idx := range m.subRecipes {
		if m.subRecipes[idx].LocalID == localID {
			m.subRecipes[idx].Quantity = quantity
			return
		}
	}
}

// Move places the staged entry with the given local id at a new canvas
// position. Unknown ids are a no-op.
func (m *Model) Move(localID uuid.UUID, pos Position) {
	for idx := range m.ingredients {
		if m.ingredients[idx].LocalID == localID {
			m.ingredients[idx].Position = pos
			return
		}
	}
	for idx := range m.subRecipes {
		if m.subRecipes[idx].LocalID == localID {
			m.subRecipes[idx].Position = pos
			return
		}
	}
}

// LoadFromPersisted replaces the draft wholesale with entries built from
// persisted state and records the snapshot change detection compares
// against
func (m *Model) LoadFromPersisted(ingredients []StagedIngredient, subRecipes []StagedSubRecipe, md Metadata) {
	m.ingredients = make([]StagedIngredient, len(ingredients))
	copy(m.ingredients, ingredients)
	m.subRecipes = make([]StagedSubRecipe, len(subRecipes))
	copy(m.subRecipes, subRecipes)
	m.metadata = md

	m.loadedIngredients = make([]StagedIngredient, len(ingredients))
	copy(m.loadedIngredients, ingredients)
	m.loadedSubRecipes = make([]StagedSubRecipe, len(subRecipes))
	copy(m.loadedSubRecipes, subRecipes)

	snap := m.State()
	m.snapshot = &snap
}

// Reset restores the draft to the last snapshot taken by
// LoadFromPersisted, or to the default empty draft if none exists.
// Entries removed since the load come back with their loaded local ids,
// quantities and positions; entries added since the load disappear.
func (m *Model) Reset() {
	if m.snapshot == nil {
		m.ingredients = nil
		m.subRecipes = nil
		m.metadata = DefaultMetadata()
		return
	}

	m.metadata = m.snapshot.Metadata
	m.ingredients = make([]StagedIngredient, len(m.loadedIngredients))
	copy(m.ingredients, m.loadedIngredients)
	m.subRecipes = make([]StagedSubRecipe, len(m.loadedSubRecipes))
	copy(m.subRecipes, m.loadedSubRecipes)
}

// ClearAll empties both draft collections, preserving metadata
func (m *Model) ClearAll() {
	m.ingredients = nil
	m.subRecipes = nil
}

// State captures the draft as the value compared by change detection:
// scalar metadata plus quantity-by-natural-id for both collections
func (m *Model) State() State {
	st := State{
		Metadata:             m.metadata,
		IngredientQuantities: make(map[int64]float64, len(m.ingredients)),
		SubRecipeQuantities:  make(map[int64]float64, len(m.subRecipes)),
	}
	for _, entry := range m.ingredients {
		st.IngredientQuantities[entry.Ingredient.ID] = entry.Quantity
	}
	for _, entry := range m.subRecipes {
		st.SubRecipeQuantities[entry.Recipe.ID] = entry.Quantity
	}
	return st
}

// Snapshot returns the state recorded by the last LoadFromPersisted, or
// nil when the draft never loaded persisted state
func (m *Model) Snapshot() *State {
	return m.snapshot
}

// HasUnsavedChanges reports whether the draft differs from its snapshot
func (m *Model) HasUnsavedChanges() bool {
	return HasChanges(m.State(), m.snapshot)
}
