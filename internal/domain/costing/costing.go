// Package costing holds the recipe cost math: pack-price to unit-price
// conversion, supplier price aggregation, and batch cost breakdowns.
package costing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UnitCost divides a pack price by its pack size. A zero pack size
// yields a zero cost rather than an error.
func UnitCost(packSize float64, pricePerPack decimal.Decimal) decimal.Decimal {
	if packSize == 0 {
		return decimal.Zero
	}
	return pricePerPack.Div(decimal.NewFromFloat(packSize))
}

// Median returns the statistical median of the given prices, or nil
// for an empty input. For an even count it averages the two middle
// values. The input slice is not modified.
func Median(prices []decimal.Decimal) *decimal.Decimal {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		m := sorted[mid]
		return &m
	}
	m := sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
	return &m
}

// BreakdownItem is one ingredient line of a recipe cost calculation.
type BreakdownItem struct {
	IngredientID       int64            `json:"ingredient_id"`
	IngredientName     string           `json:"ingredient_name"`
	Quantity           float64          `json:"quantity"`
	Unit               string           `json:"unit"`
	QuantityInBaseUnit float64          `json:"quantity_in_base_unit"`
	BaseUnit           string           `json:"base_unit"`
	CostPerBaseUnit    *decimal.Decimal `json:"cost_per_base_unit"`
	LineCost           *decimal.Decimal `json:"line_cost"`
}

// SubRecipeBreakdownItem is one nested recipe line of a cost
// calculation.
type SubRecipeBreakdownItem struct {
	RecipeID   int64            `json:"recipe_id"`
	RecipeName string           `json:"recipe_name"`
	Quantity   float64          `json:"quantity"`
	Unit       string           `json:"unit"`
	LineCost   *decimal.Decimal `json:"line_cost"`
}

// Result is the full cost picture for one recipe. TotalBatchCost is
// nil whenever any ingredient lacks pricing, with the offenders listed
// in MissingCosts.
type Result struct {
	RecipeID       int64                    `json:"recipe_id"`
	RecipeName     string                   `json:"recipe_name"`
	YieldQuantity  float64                  `json:"yield_quantity"`
	YieldUnit      string                   `json:"yield_unit"`
	Breakdown      []BreakdownItem          `json:"breakdown"`
	SubRecipes     []SubRecipeBreakdownItem `json:"sub_recipes"`
	TotalBatchCost *decimal.Decimal         `json:"total_batch_cost"`
	CostPerPortion *decimal.Decimal         `json:"cost_per_portion"`
	MissingCosts   []string                 `json:"missing_costs"`
}

// PerPortion divides a batch cost by the yield quantity. Returns nil
// for a non-positive total or yield.
func PerPortion(total decimal.Decimal, yieldQuantity float64) *decimal.Decimal {
	if yieldQuantity <= 0 || !total.IsPositive() {
		return nil
	}
	p := total.Div(decimal.NewFromFloat(yieldQuantity))
	return &p
}
