package recipe

import (
	"time"

	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierEntry is one supplier's offer for an ingredient, stored as part
// of the ingredient's JSON supplier list. CostPerUnit is the pre-computed
// price per PackUnit (PricePerPack / PackSize).
type SupplierEntry struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	PackSize     float64         `json:"pack_size"`
	PricePerPack decimal.Decimal `json:"price_per_pack"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	PackUnit     string          `json:"pack_unit"`
	IsPreferred  bool            `json:"is_preferred"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// SupplierList is stored as a JSON column on the ingredients table
type SupplierList []SupplierEntry

// Ingredient is the canonical ingredient reference with a baseline unit
// cost. The baseline cost is indicative and may be stale; supplier entries
// carry the authoritative pack pricing.
type Ingredient struct {
	shared.BaseEntity
	Name            string           `gorm:"type:varchar(200);not null;index"`
	BaseUnit        string           `gorm:"type:varchar(20);not null"`
	CostPerBaseUnit *decimal.Decimal `gorm:"type:decimal(18,4)"`
	IsActive        bool             `gorm:"not null;default:true"`
	Suppliers       SupplierList     `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Ingredient) TableName() string {
	return "ingredients"
}

// NewIngredient creates a new active ingredient
func NewIngredient(name, baseUnit string) (*Ingredient, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Ingredient name cannot be empty")
	}
	if err := validateUnit(baseUnit); err != nil {
		return nil, err
	}

	return &Ingredient{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		BaseUnit:   baseUnit,
		IsActive:   true,
	}, nil
}

// UpdateCost sets the indicative cost per base unit
func (i *Ingredient) UpdateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per base unit cannot be negative")
	}

	i.CostPerBaseUnit = &cost
	i.Touch()
	return nil
}

// Deactivate soft-deletes the ingredient
func (i *Ingredient) Deactivate() {
	i.IsActive = false
	i.Touch()
}

// AddSupplier adds a supplier entry. If an entry with the same supplier id
// already exists it is replaced instead. Marking the entry preferred
// clears the preferred flag on every other entry: at most one supplier is
// preferred at a time.
func (i *Ingredient) AddSupplier(entry SupplierEntry) error {
	if entry.SupplierID == "" {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier id cannot be empty")
	}
	if entry.PackSize < 0 {
		return shared.NewDomainError("INVALID_SUPPLIER", "Pack size cannot be negative")
	}

	entry.LastUpdated = time.Now()

	if entry.IsPreferred {
		for idx := range i.Suppliers {
			i.Suppliers[idx].IsPreferred = false
		}
	}

	for idx := range i.Suppliers {
		if i.Suppliers[idx].SupplierID == entry.SupplierID {
			i.Suppliers[idx] = entry
			i.Touch()
			return nil
		}
	}

	i.Suppliers = append(i.Suppliers, entry)
	i.Touch()
	return nil
}

// RemoveSupplier removes the entry with the given supplier id
func (i *Ingredient) RemoveSupplier(supplierID string) error {
	for idx := range i.Suppliers {
		if i.Suppliers[idx].SupplierID == supplierID {
			i.Suppliers = append(i.Suppliers[:idx], i.Suppliers[idx+1:]...)
			i.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetPreferredSupplier marks the entry with the given supplier id as
// preferred and clears the flag everywhere else
func (i *Ingredient) SetPreferredSupplier(supplierID string) error {
	found := false
	for idx := range i.Suppliers {
		match := i.Suppliers[idx].SupplierID == supplierID
		i.Suppliers[idx].IsPreferred = match
		found = found || match
	}
	if !found {
		return shared.ErrNotFound
	}
	i.Touch()
	return nil
}

// PreferredSupplier returns the entry marked preferred, or nil when no
// entry carries the flag. Callers that want the original UI's "fall back
// to the first supplier" behavior use FirstSupplier.
func (i *Ingredient) PreferredSupplier() *SupplierEntry {
	for idx := range i.Suppliers {
		if i.Suppliers[idx].IsPreferred {
			return &i.Suppliers[idx]
		}
	}
	return nil
}

// FirstSupplier returns the preferred entry if any, else the first entry,
// else nil
func (i *Ingredient) FirstSupplier() *SupplierEntry {
	if preferred := i.PreferredSupplier(); preferred != nil {
		return preferred
	}
	if len(i.Suppliers) > 0 {
		return &i.Suppliers[0]
	}
	return nil
}
