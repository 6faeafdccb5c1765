package recipe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewRecipe_Success(t *testing.T) {
	r, err := NewRecipe("Tonkotsu Broth", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "Tonkotsu Broth", r.Name)
	assert.Equal(t, 1, r.Version)
	assert.Nil(t, r.RootID)
	assert.Equal(t, StatusDraft, r.Status)
	assert.Equal(t, "user-1", r.OwnerID)
	assert.Equal(t, 1.0, r.YieldQuantity)
	assert.Equal(t, "portion", r.YieldUnit)
}

func TestNewRecipe_EmptyName(t *testing.T) {
	_, err := NewRecipe("", "user-1")
	assert.Error(t, err)
}

func TestRecipe_SetYield(t *testing.T) {
	r, _ := NewRecipe("Broth", "user-1")

	assert.NoError(t, r.SetYield(2.5, "l"))
	assert.Equal(t, 2.5, r.YieldQuantity)
	assert.Equal(t, "l", r.YieldUnit)

	assert.Error(t, r.SetYield(0, "l"))
	assert.Error(t, r.SetYield(1, ""))
}

func TestRecipe_SetStatus(t *testing.T) {
	r, _ := NewRecipe("Broth", "user-1")

	assert.NoError(t, r.SetStatus(StatusActive))
	assert.Equal(t, StatusActive, r.Status)

	// Same status again is an invalid transition
	assert.Error(t, r.SetStatus(StatusActive))

	assert.NoError(t, r.Archive())
	assert.Equal(t, StatusArchived, r.Status)

	assert.Error(t, r.SetStatus("frozen"))
}

func TestRecipe_Fork(t *testing.T) {
	r, _ := NewRecipe("Broth", "user-1")
	r.ID = 42
	r.Version = 3

	forked := r.Fork("user-2")

	assert.Equal(t, "Broth (Fork)", forked.Name)
	assert.Equal(t, 4, forked.Version)
	if assert.NotNil(t, forked.RootID) {
		assert.Equal(t, int64(42), *forked.RootID)
	}
	assert.Equal(t, StatusDraft, forked.Status)
	assert.Equal(t, "user-2", forked.OwnerID)
	assert.Zero(t, forked.ID)
}

func TestRecipe_Fork_KeepsOwnerWhenUnspecified(t *testing.T) {
	r, _ := NewRecipe("Broth", "user-1")
	r.ID = 7

	forked := r.Fork("")

	assert.Equal(t, "user-1", forked.OwnerID)
}

func TestRecipe_Visibility(t *testing.T) {
	r, _ := NewRecipe("Broth", "user-1")

	assert.True(t, r.IsVisibleTo("user-1"))
	assert.False(t, r.IsVisibleTo("user-2"))
	assert.False(t, r.IsVisibleTo(""))

	r.IsPublic = true
	assert.True(t, r.IsVisibleTo("user-2"))
}

func TestRecipe_Masked(t *testing.T) {
	r, _ := NewRecipe("Secret Sauce", "user-1")
	r.ID = 9
	r.Version = 2
	rootID := int64(3)

	masked := r.Masked(&rootID)

	assert.Empty(t, masked.Name)
	assert.True(t, masked.IsMasked())
	assert.Equal(t, int64(9), masked.ID)
	assert.Equal(t, 2, masked.Version)
	assert.Equal(t, int64(3), *masked.RootID)
	assert.Empty(t, masked.OwnerID)
}

func TestRecipe_SetCostPrice(t *testing.T) {
	r, _ := NewRecipe("Broth", "user-1")

	r.SetCostPrice(decimal.NewFromFloat(4.25))

	if assert.NotNil(t, r.CostPrice) {
		assert.True(t, r.CostPrice.Equal(decimal.NewFromFloat(4.25)))
	}
}
