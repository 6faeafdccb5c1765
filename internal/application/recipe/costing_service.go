package recipe

import (
	"context"

	"github.com/mise/backend/internal/domain/costing"
	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// maxCostingDepth bounds recursion through nested sub-recipes. Cycles
// cannot occur once links pass the composition cycle check, but stored
// data predating the check is still costed safely.
const maxCostingDepth = 10

// CostCache stores computed costing results keyed by recipe id
type CostCache interface {
	Get(ctx context.Context, recipeID int64) (*costing.Result, bool)
	Set(ctx context.Context, recipeID int64, result *costing.Result)
	Invalidate(ctx context.Context, recipeID int64)
}

// CostingService computes recipe cost breakdowns, recursing through
// nested sub-recipes
type CostingService struct {
	recipeRepo      recipe.Repository
	ingredientRepo  recipe.IngredientRepository
	compositionRepo recipe.CompositionRepository
	cache           CostCache
}

// NewCostingService creates a new CostingService. The cache may be nil.
func NewCostingService(
	recipeRepo recipe.Repository,
	ingredientRepo recipe.IngredientRepository,
	compositionRepo recipe.CompositionRepository,
	cache CostCache,
) *CostingService {
	return &CostingService{
		recipeRepo:      recipeRepo,
		ingredientRepo:  ingredientRepo,
		compositionRepo: compositionRepo,
		cache:           cache,
	}
}

// Calculate returns the full cost breakdown for a recipe. Results are
// served from the cache when present; the total is withheld whenever
// any component lacks pricing, with the offenders listed by name.
func (s *CostingService) Calculate(ctx context.Context, userID string, recipeID int64) (*costing.Result, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !r.IsVisibleTo(userID) {
		return nil, shared.ErrNotFound
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, recipeID); ok {
			return cached, nil
		}
	}

	visited := map[int64]bool{recipeID: true}
	result, err := s.calculate(ctx, r, 0, visited)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, recipeID, result)
	}
	return result, nil
}

// PersistSnapshot computes the cost and stores the per-portion figure
// on the recipe record for quick list display
func (s *CostingService) PersistSnapshot(ctx context.Context, userID string, recipeID int64) (*RecipeResponse, error) {
	result, err := s.Calculate(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != userID {
		return nil, shared.ErrForbidden
	}

	if result.CostPerPortion != nil {
		r.SetCostPrice(*result.CostPerPortion)
		if err := s.recipeRepo.Save(ctx, r); err != nil {
			return nil, err
		}
	}

	resp := ToRecipeResponse(r)
	return &resp, nil
}

func (s *CostingService) calculate(ctx context.Context, r *recipe.Recipe, depth int, visited map[int64]bool) (*costing.Result, error) {
	result := &costing.Result{
		RecipeID:      r.ID,
		RecipeName:    r.Name,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		Breakdown:     []costing.BreakdownItem{},
		SubRecipes:    []costing.SubRecipeBreakdownItem{},
		MissingCosts:  []string{},
	}

	links, err := s.compositionRepo.ListIngredientLinks(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	ingredientIDs := make([]int64, len(links))
	for i, link := range links {
		ingredientIDs[i] = link.IngredientID
	}
	ingredients, err := s.ingredientRepo.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	ingredientsByID := make(map[int64]recipe.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientsByID[ing.ID] = ing
	}

	total := decimal.Zero
	for _, link := range links {
		ing, ok := ingredientsByID[link.IngredientID]
		if !ok {
			continue
		}

		quantityInBase, compatible := costing.ConvertToBaseUnit(link.Quantity, link.Unit, ing.BaseUnit)
		item := costing.BreakdownItem{
			IngredientID:    ing.ID,
			IngredientName:  ing.Name,
			Quantity:        link.Quantity,
			Unit:            link.Unit,
			BaseUnit:        ing.BaseUnit,
			CostPerBaseUnit: ing.CostPerBaseUnit,
		}
		if compatible {
			item.QuantityInBaseUnit = quantityInBase
		} else {
			item.QuantityInBaseUnit = link.Quantity
		}

		if ing.CostPerBaseUnit != nil && compatible {
			lineCost := ing.CostPerBaseUnit.Mul(decimal.NewFromFloat(quantityInBase))
			item.LineCost = &lineCost
			total = total.Add(lineCost)
		} else {
			result.MissingCosts = append(result.MissingCosts, ing.Name)
		}
		result.Breakdown = append(result.Breakdown, item)
	}

	subLinks, err := s.compositionRepo.ListSubRecipeLinks(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	for _, link := range subLinks {
		child, err := s.recipeRepo.FindByID(ctx, link.ChildRecipeID)
		if err != nil {
			return nil, err
		}

		item := costing.SubRecipeBreakdownItem{
			RecipeID:   child.ID,
			RecipeName: child.Name,
			Quantity:   link.Quantity,
			Unit:       link.Unit,
		}

		if depth >= maxCostingDepth || visited[child.ID] {
			result.MissingCosts = append(result.MissingCosts, child.Name)
			result.SubRecipes = append(result.SubRecipes, item)
			continue
		}

		visited[child.ID] = true
		childResult, err := s.calculate(ctx, child, depth+1, visited)
		delete(visited, child.ID)
		if err != nil {
			return nil, err
		}

		if childResult.CostPerPortion != nil && len(childResult.MissingCosts) == 0 {
			lineCost := childResult.CostPerPortion.Mul(decimal.NewFromFloat(link.Quantity))
			item.LineCost = &lineCost
			total = total.Add(lineCost)
		} else {
			result.MissingCosts = append(result.MissingCosts, child.Name)
		}
		result.SubRecipes = append(result.SubRecipes, item)
	}

	if len(result.MissingCosts) == 0 {
		t := total
		result.TotalBatchCost = &t
	}
	result.CostPerPortion = costing.PerPortion(total, r.YieldQuantity)
	return result, nil
}
