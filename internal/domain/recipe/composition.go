package recipe

import (
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecipeIngredient is the persisted quantitative link between a recipe
// and an ingredient. All costing and scaling flows through this table.
// UnitPrice and BaseUnit are resolved at staging time from the preferred
// supplier (or the ingredient's baseline cost) and stored denormalized so
// historical compositions keep the price they were built with.
type RecipeIngredient struct {
	shared.BaseEntity
	RecipeID     int64            `gorm:"not null;index"`
	IngredientID int64            `gorm:"not null;index"`
	Quantity     float64          `gorm:"not null"`
	Unit         string           `gorm:"type:varchar(20);not null"`
	BaseUnit     string           `gorm:"type:varchar(20)"`
	UnitPrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	SupplierID   *int64
	SortOrder    int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// NewRecipeIngredient creates a new recipe-ingredient link
func NewRecipeIngredient(recipeID, ingredientID int64, quantity float64, unit string) (*RecipeIngredient, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &RecipeIngredient{
		BaseEntity:   shared.NewBaseEntity(),
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	}, nil
}

// UpdatePricing sets the fields a reconciliation update is allowed to
// change on an existing link
func (ri *RecipeIngredient) UpdatePricing(quantity float64, unit, baseUnit string, unitPrice *decimal.Decimal, supplierID *int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	ri.Quantity = quantity
	ri.Unit = unit
	ri.BaseUnit = baseUnit
	ri.UnitPrice = unitPrice
	ri.SupplierID = supplierID
	ri.Touch()
	return nil
}

// SubRecipeLink is the persisted link making one recipe a component of
// another: the parent contains Quantity units of the child. Together the
// links form a bill-of-materials hierarchy; cycle prevention happens in
// the composition service before a link is created.
type SubRecipeLink struct {
	shared.BaseEntity
	ParentRecipeID int64   `gorm:"not null;index"`
	ChildRecipeID  int64   `gorm:"not null;index"`
	Quantity       float64 `gorm:"not null;default:1"`
	Unit           string  `gorm:"type:varchar(20);not null;default:'portion'"`
	Position       int     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SubRecipeLink) TableName() string {
	return "sub_recipe_links"
}

// NewSubRecipeLink creates a new parent/child composition link
func NewSubRecipeLink(parentID, childID int64, quantity float64, unit string) (*SubRecipeLink, error) {
	if parentID == childID {
		return nil, shared.ErrCycleDetected
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &SubRecipeLink{
		BaseEntity:     shared.NewBaseEntity(),
		ParentRecipeID: parentID,
		ChildRecipeID:  childID,
		Quantity:       quantity,
		Unit:           unit,
	}, nil
}

// SetQuantity updates the link quantity
func (l *SubRecipeLink) SetQuantity(quantity float64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	l.Quantity = quantity
	l.Touch()
	return nil
}
