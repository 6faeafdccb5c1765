package staging

// State is the comparable value of a draft: scalar metadata plus the
// quantity of every staged entry keyed by natural id (ingredient id for
// ingredients, child recipe id for sub-recipes)
type State struct {
	Metadata             Metadata
	IngredientQuantities map[int64]float64
	SubRecipeQuantities  map[int64]float64
}

// DefaultState is the state of a never-loaded empty draft
func DefaultState() State {
	return State{
		Metadata:             DefaultMetadata(),
		IngredientQuantities: map[int64]float64{},
		SubRecipeQuantities:  map[int64]float64{},
	}
}

// HasChanges reports whether current differs from snapshot. Checks short
// circuit in a fixed order: metadata fields, then ingredient id set
// membership in both directions, then ingredient quantities, then the
// same two checks for sub-recipes. A nil snapshot compares against the
// default empty state.
func HasChanges(current State, snapshot *State) bool {
	base := DefaultState()
	if snapshot != nil {
		base = *snapshot
	}

	if current.Metadata != base.Metadata {
		return true
	}
	if setsDiffer(current.IngredientQuantities, base.IngredientQuantities) {
		return true
	}
	if quantitiesDiffer(current.IngredientQuantities, base.IngredientQuantities) {
		return true
	}
	if setsDiffer(current.SubRecipeQuantities, base.SubRecipeQuantities) {
		return true
	}
	return quantitiesDiffer(current.SubRecipeQuantities, base.SubRecipeQuantities)
}

// setsDiffer reports whether the key sets of the two maps differ in
// either direction
func setsDiffer(a, b map[int64]float64) bool {
	if len(a) != len(b) {
		return true
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return true
		}
	}
	return false
}

// quantitiesDiffer reports whether any id present in both maps carries a
// different quantity
func quantitiesDiffer(a, b map[int64]float64) bool {
	for id, qty := range a {
		if other, ok := b[id]; ok && other != qty {
			return true
		}
	}
	return false
}
