package recipe

import (
	"context"
	"sort"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/versiongraph"
)

// RecipeService handles recipe lifecycle operations: CRUD, forking and
// the version lineage views.
type RecipeService struct {
	recipeRepo      recipe.Repository
	compositionRepo recipe.CompositionRepository
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipeRepo recipe.Repository, compositionRepo recipe.CompositionRepository) *RecipeService {
	return &RecipeService{
		recipeRepo:      recipeRepo,
		compositionRepo: compositionRepo,
	}
}

// Create creates a new original recipe owned by the given user
func (s *RecipeService) Create(ctx context.Context, ownerID string, req CreateRecipeRequest) (*RecipeResponse, error) {
	r, err := recipe.NewRecipe(req.Name, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := r.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.YieldQuantity != nil {
		unit := r.YieldUnit
		if req.YieldUnit != "" {
			unit = req.YieldUnit
		}
		if err := r.SetYield(*req.YieldQuantity, unit); err != nil {
			return nil, err
		}
	}
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}
	if req.RootID != nil {
		root, err := s.recipeRepo.FindByID(ctx, *req.RootID)
		if err != nil {
			return nil, err
		}
		if !root.IsVisibleTo(ownerID) {
			return nil, shared.ErrNotFound
		}
		r.RootID = req.RootID
		if req.Version != nil {
			r.Version = *req.Version
		} else {
			r.Version = root.Version + 1
		}
	}

	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	resp := ToRecipeResponse(r)
	return &resp, nil
}

// GetByID returns a recipe visible to the given user. Recipes the user
// is not allowed to see are reported as not found rather than
// forbidden, so their existence is not leaked.
func (s *RecipeService) GetByID(ctx context.Context, userID string, id int64) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsVisibleTo(userID) {
		return nil, shared.ErrNotFound
	}

	resp := ToRecipeResponse(r)
	return &resp, nil
}

// List returns the recipes visible to the given user
func (s *RecipeService) List(ctx context.Context, userID string, filter shared.Filter) ([]RecipeResponse, int64, error) {
	recipes, err := s.recipeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	visible := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.IsVisibleTo(userID) {
			visible = append(visible, r)
		}
	}

	return ToRecipeResponses(visible), int64(len(visible)), nil
}

// Update modifies recipe metadata. Only the owner may update.
func (s *RecipeService) Update(ctx context.Context, userID string, id int64, req UpdateRecipeRequest) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != userID {
		return nil, shared.ErrForbidden
	}

	if req.Name != nil || req.Description != nil {
		name := r.Name
		description := r.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := r.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.YieldQuantity != nil || req.YieldUnit != nil {
		quantity := r.YieldQuantity
		unit := r.YieldUnit
		if req.YieldQuantity != nil {
			quantity = *req.YieldQuantity
		}
		if req.YieldUnit != nil {
			unit = *req.YieldUnit
		}
		if err := r.SetYield(quantity, unit); err != nil {
			return nil, err
		}
	}
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}
	if req.Status != nil && recipe.Status(*req.Status) != r.Status {
		if err := r.SetStatus(recipe.Status(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	resp := ToRecipeResponse(r)
	return &resp, nil
}

// Delete soft-deletes a recipe by archiving it. Only the owner may
// delete.
func (s *RecipeService) Delete(ctx context.Context, userID string, id int64) error {
	r, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.OwnerID != userID {
		return shared.ErrForbidden
	}

	if err := r.Archive(); err != nil {
		return err
	}
	return s.recipeRepo.Save(ctx, r)
}

// Fork creates a new version of a recipe owned by the given user and
// copies the parent's composition links onto it. The forked record
// carries version parent+1 and a root reference to the parent.
func (s *RecipeService) Fork(ctx context.Context, userID string, id int64) (*RecipeResponse, error) {
	parent, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !parent.IsVisibleTo(userID) {
		return nil, shared.ErrNotFound
	}

	forked := parent.Fork(userID)
	if err := s.recipeRepo.Save(ctx, forked); err != nil {
		return nil, err
	}

	links, err := s.compositionRepo.ListIngredientLinks(ctx, parent.ID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		copied := link
		copied.ID = 0
		copied.RecipeID = forked.ID
		if err := s.compositionRepo.SaveIngredientLink(ctx, &copied); err != nil {
			return nil, err
		}
	}

	subLinks, err := s.compositionRepo.ListSubRecipeLinks(ctx, parent.ID)
	if err != nil {
		return nil, err
	}
	for _, link := range subLinks {
		copied := link
		copied.ID = 0
		copied.ParentRecipeID = forked.ID
		if err := s.compositionRepo.SaveSubRecipeLink(ctx, &copied); err != nil {
			return nil, err
		}
	}

	resp := ToRecipeResponse(forked)
	return &resp, nil
}

// VersionTree returns every recipe in the fork lineage of the given
// recipe, ordered by version. Recipes the user may not see are masked:
// their name is blanked and their root reference is reattached to the
// nearest visible ancestor, so the lineage shape survives without
// leaking content.
func (s *RecipeService) VersionTree(ctx context.Context, userID string, id int64) ([]RecipeResponse, error) {
	lineage, err := s.collectLineage(ctx, id)
	if err != nil {
		return nil, err
	}

	masked := maskLineage(lineage, userID)
	return ToRecipeResponses(masked), nil
}

// VersionGraph returns the positioned version graph for a recipe.
// Masked lineage entries are filtered out by the graph builder.
func (s *RecipeService) VersionGraph(ctx context.Context, userID string, id int64) (*VersionGraphResponse, error) {
	lineage, err := s.collectLineage(ctx, id)
	if err != nil {
		return nil, err
	}

	graph := versiongraph.Build(maskLineage(lineage, userID), id)
	resp := ToVersionGraphResponse(graph)
	return &resp, nil
}

// collectLineage walks up the root chain to the lineage's origin, then
// BFS-collects every descendant, returning the whole tree sorted by
// version then creation time.
func (s *RecipeService) collectLineage(ctx context.Context, id int64) ([]recipe.Recipe, error) {
	current, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := map[int64]bool{current.ID: true}
	for current.RootID != nil && !seen[*current.RootID] {
		parent, err := s.recipeRepo.FindByID(ctx, *current.RootID)
		if err != nil {
			break
		}
		seen[parent.ID] = true
		current = parent
	}
	root := current

	lineage := []recipe.Recipe{*root}
	visited := map[int64]bool{root.ID: true}
	queue := []int64{root.ID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]

		children, err := s.recipeRepo.FindForks(ctx, parentID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			lineage = append(lineage, child)
			queue = append(queue, child.ID)
		}
	}

	sort.Slice(lineage, func(i, j int) bool {
		if lineage[i].Version != lineage[j].Version {
			return lineage[i].Version < lineage[j].Version
		}
		return lineage[i].CreatedAt.Before(lineage[j].CreatedAt)
	})
	return lineage, nil
}

// maskLineage applies per-user visibility to a lineage. Invisible
// recipes are replaced with masked placeholders; any recipe whose
// parent is invisible is relinked to its nearest visible ancestor.
func maskLineage(lineage []recipe.Recipe, userID string) []recipe.Recipe {
	byID := make(map[int64]recipe.Recipe, len(lineage))
	authorized := make(map[int64]bool, len(lineage))
	for _, r := range lineage {
		byID[r.ID] = r
		if r.IsVisibleTo(userID) {
			authorized[r.ID] = true
		}
	}

	nearestVisibleAncestor := func(r recipe.Recipe) *int64 {
		current := r
		for current.RootID != nil {
			parent, ok := byID[*current.RootID]
			if !ok {
				return nil
			}
			if authorized[parent.ID] {
				id := parent.ID
				return &id
			}
			current = parent
		}
		return nil
	}

	result := make([]recipe.Recipe, 0, len(lineage))
	for _, r := range lineage {
		if !authorized[r.ID] {
			result = append(result, r.Masked(nearestVisibleAncestor(r)))
			continue
		}
		if r.RootID != nil && !authorized[*r.RootID] {
			relinked := r
			relinked.RootID = nearestVisibleAncestor(r)
			result = append(result, relinked)
			continue
		}
		result = append(result, r)
	}
	return result
}
