package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingTier is the fixed two-value tier set. It is deliberately not a
// catalog table: the store enforces it with a check constraint, and this type
// keeps illegal tiers out past the parse boundary.
type PricingTier string

const (
	TierStandard PricingTier = "standard"
	TierPremium  PricingTier = "premium"
)

// AllPricingTiers returns both tiers in matrix-iteration order.
func AllPricingTiers() [2]PricingTier {
	return [2]PricingTier{TierStandard, TierPremium}
}

// ParsePricingTier maps a free-form tier string onto the closed tier set.
// Anything outside the set is an error, never a silent default.
func ParsePricingTier(s string) (PricingTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TierStandard):
		return TierStandard, nil
	case string(TierPremium):
		return TierPremium, nil
	default:
		return "", fmt.Errorf("invalid pricing tier %q (must be %q or %q)", s, TierStandard, TierPremium)
	}
}

// DisplayName returns the human-facing label for a tier.
func (t PricingTier) DisplayName() string {
	switch t {
	case TierPremium:
		return "Premium"
	default:
		return "Standard"
	}
}

// PricingEntry is one row of the sparse pricing table, keyed by the composite
// (model_id, service_id, pricing_tier). The uniqueness constraint on that
// triple lives in the store and is the only concurrency-safety mechanism for
// racing writers.
type PricingEntry struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	ServiceID       uint                `gorm:"uniqueIndex:idx_pricing_composite;index;not null" json:"service_id"`
	Service         Service             `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	ModelID         uint                `gorm:"uniqueIndex:idx_pricing_composite;index;not null" json:"model_id"`
	Model           DeviceModel         `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	PricingTier     PricingTier         `gorm:"type:varchar(20);uniqueIndex:idx_pricing_composite;not null" json:"pricing_tier"`
	BasePrice       decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"base_price"`
	DiscountedPrice decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"discounted_price"`
	CostPrice       decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"cost_price"`
	IsActive        bool                `gorm:"default:true" json:"is_active"`
	ValidFrom       *time.Time          `json:"valid_from,omitempty"`
	ValidUntil      *time.Time          `json:"valid_until,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the PricingEntry model
func (PricingEntry) TableName() string {
	return "pricing_entries"
}

// BeforeCreate is called before creating a new record
func (p *PricingEntry) BeforeCreate(tx *gorm.DB) error {
	if _, err := ParsePricingTier(string(p.PricingTier)); err != nil {
		return gorm.ErrInvalidValue
	}
	if !p.BasePrice.IsPositive() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// PromotionActiveAt reports whether the optional promotional window contains
// the given instant and a discounted price is set.
func (p *PricingEntry) PromotionActiveAt(now time.Time) bool {
	if !p.DiscountedPrice.Valid {
		return false
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && !now.Before(*p.ValidUntil) {
		return false
	}
	return true
}

// FindPricingByComposite finds the row for one (model, service, tier) triple
func FindPricingByComposite(db *gorm.DB, modelID, serviceID uint, tier PricingTier) (*PricingEntry, error) {
	var entry PricingEntry
	result := db.Where("model_id = ? AND service_id = ? AND pricing_tier = ?", modelID, serviceID, tier).First(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}
