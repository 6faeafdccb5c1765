package recipe

import (
	"time"

	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a recipe
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ForkNameSuffix is appended to the name of a forked recipe
const ForkNameSuffix = " (Fork)"

// Recipe is the core recipe artifact and the aggregate root for
// composition operations. Version and RootID together describe the fork
// lineage: RootID points at the recipe this one was forked from, nil for
// an original. Chains of RootID pointers are guaranteed acyclic by the
// fork operation, which only ever points a new record at an existing one.
type Recipe struct {
	shared.BaseEntity
	Name          string `gorm:"type:varchar(200);not null;index"`
	Description   string `gorm:"type:text"`
	YieldQuantity float64 `gorm:"not null;default:1"`
	YieldUnit     string  `gorm:"type:varchar(20);not null;default:'portion'"`
	Version       int     `gorm:"not null;default:1"`
	RootID        *int64  `gorm:"index"`
	Status        Status  `gorm:"type:varchar(20);not null;default:'draft'"`
	OwnerID       string  `gorm:"type:varchar(100);index"`
	IsPublic      bool    `gorm:"not null;default:false"`
	ImageURL      *string `gorm:"type:text"`
	// CostPrice caches the last computed cost per portion. Derived state,
	// safe to recompute at any time.
	CostPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// NewRecipe creates a new original (version 1, no fork parent) recipe
func NewRecipe(name, ownerID string) (*Recipe, error) {
	if err := validateRecipeName(name); err != nil {
		return nil, err
	}

	return &Recipe{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		YieldQuantity: 1,
		YieldUnit:     "portion",
		Version:       1,
		Status:        StatusDraft,
		OwnerID:       ownerID,
	}, nil
}

// Update updates the recipe's basic information
func (r *Recipe) Update(name, description string) error {
	if err := validateRecipeName(name); err != nil {
		return err
	}

	r.Name = name
	r.Description = description
	r.Touch()
	return nil
}

// SetYield updates the yield quantity and unit
func (r *Recipe) SetYield(quantity float64, unit string) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_YIELD", "Yield quantity must be positive")
	}
	if err := validateUnit(unit); err != nil {
		return err
	}

	r.YieldQuantity = quantity
	r.YieldUnit = unit
	r.Touch()
	return nil
}

// SetStatus transitions the recipe to the given status
func (r *Recipe) SetStatus(status Status) error {
	switch status {
	case StatusDraft, StatusActive, StatusArchived:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown recipe status")
	}
	if r.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Recipe is already in status "+string(status))
	}

	r.Status = status
	r.Touch()
	return nil
}

// Archive soft-deletes the recipe by marking it archived
func (r *Recipe) Archive() error {
	return r.SetStatus(StatusArchived)
}

// SetCostPrice caches a computed cost-per-portion value
func (r *Recipe) SetCostPrice(price decimal.Decimal) {
	r.CostPrice = &price
	r.Touch()
}

// SetImageURL sets the main image reference
func (r *Recipe) SetImageURL(url string) {
	if url == "" {
		r.ImageURL = nil
	} else {
		r.ImageURL = &url
	}
	r.Touch()
}

// Fork creates a new draft recipe derived from this one. The fork starts
// one version ahead and its RootID points back at the parent. The new
// record carries no composition; callers copy the links separately.
func (r *Recipe) Fork(ownerID string) *Recipe {
	parentID := r.ID
	forked := &Recipe{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          r.Name + ForkNameSuffix,
		Description:   r.Description,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		Version:       r.Version + 1,
		RootID:        &parentID,
		Status:        StatusDraft,
		OwnerID:       r.OwnerID,
	}
	if ownerID != "" {
		forked.OwnerID = ownerID
	}
	return forked
}

// IsVisibleTo reports whether userID may see this recipe's full contents
func (r *Recipe) IsVisibleTo(userID string) bool {
	if r.IsPublic {
		return true
	}
	return userID != "" && r.OwnerID == userID
}

// Masked returns a copy stripped down to lineage information. The empty
// name is the masking marker consumers key off.
func (r *Recipe) Masked(rootID *int64) Recipe {
	return Recipe{
		BaseEntity: shared.BaseEntity{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		Name:    "",
		Version: r.Version,
		RootID:  rootID,
		Status:  r.Status,
	}
}

// IsMasked reports whether this record is a masked placeholder
func (r *Recipe) IsMasked() bool {
	return r.Name == ""
}

// IsOriginal reports whether this recipe has no fork parent
func (r *Recipe) IsOriginal() bool {
	return r.RootID == nil
}

// Age returns how long ago the recipe was created
func (r *Recipe) Age(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}

func validateRecipeName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Recipe name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Recipe name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
