package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
)

// GormCompositionRepository implements recipe.CompositionRepository using GORM
type GormCompositionRepository struct {
	db *gorm.DB
}

// NewGormCompositionRepository creates a new GormCompositionRepository
func NewGormCompositionRepository(db *gorm.DB) *GormCompositionRepository {
	return &GormCompositionRepository{db: db}
}

// ListIngredientLinks returns the ingredient links of a recipe in sort order
func (r *GormCompositionRepository) ListIngredientLinks(ctx context.Context, recipeID int64) ([]recipe.RecipeIngredient, error) {
	var links []recipe.RecipeIngredient
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("sort_order ASC, id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindIngredientLink finds an ingredient link by its ID
func (r *GormCompositionRepository) FindIngredientLink(ctx context.Context, id int64) (*recipe.RecipeIngredient, error) {
	var link recipe.RecipeIngredient
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// SaveIngredientLink creates or updates an ingredient link
func (r *GormCompositionRepository) SaveIngredientLink(ctx context.Context, link *recipe.RecipeIngredient) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// DeleteIngredientLink removes an ingredient link by ID
func (r *GormCompositionRepository) DeleteIngredientLink(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&recipe.RecipeIngredient{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListSubRecipeLinks returns the sub-recipe links of a recipe in position order
func (r *GormCompositionRepository) ListSubRecipeLinks(ctx context.Context, parentRecipeID int64) ([]recipe.SubRecipeLink, error) {
	var links []recipe.SubRecipeLink
	if err := r.db.WithContext(ctx).
		Where("parent_recipe_id = ?", parentRecipeID).
		Order("position ASC, id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindSubRecipeLink finds a sub-recipe link by its ID
func (r *GormCompositionRepository) FindSubRecipeLink(ctx context.Context, id int64) (*recipe.SubRecipeLink, error) {
	var link recipe.SubRecipeLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// SaveSubRecipeLink creates or updates a sub-recipe link
func (r *GormCompositionRepository) SaveSubRecipeLink(ctx context.Context, link *recipe.SubRecipeLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// DeleteSubRecipeLink removes a sub-recipe link by ID
func (r *GormCompositionRepository) DeleteSubRecipeLink(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&recipe.SubRecipeLink{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ChildRecipeIDs returns the direct sub-recipe ids of a recipe
func (r *GormCompositionRepository) ChildRecipeIDs(ctx context.Context, recipeID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&recipe.SubRecipeLink{}).
		Where("parent_recipe_id = ?", recipeID).
		Pluck("child_recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormCompositionRepository implements recipe.CompositionRepository
var _ recipe.CompositionRepository = (*GormCompositionRepository)(nil)
