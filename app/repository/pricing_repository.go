package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
)

// pricingRepository implements the PricingRepository interface
type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository instance
func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

// List retrieves pricing rows with their joined catalog entities, newest first
func (r *pricingRepository) List(ctx context.Context, filter PricingFilter) ([]models.PricingEntry, error) {
	query := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Model").
		Preload("Model.Brand").
		Preload("Model.DeviceType").
		Order("created_at DESC")

	if filter.ModelID != nil {
		query = query.Where("model_id = ?", *filter.ModelID)
	}
	if filter.ServiceID != nil {
		query = query.Where("service_id = ?", *filter.ServiceID)
	}
	if filter.Tier != nil {
		query = query.Where("pricing_tier = ?", *filter.Tier)
	}

	var entries []models.PricingEntry
	err := query.Find(&entries).Error
	return entries, err
}

// GetByID retrieves one pricing row by its ID
func (r *pricingRepository) GetByID(ctx context.Context, id uint) (*models.PricingEntry, error) {
	var entry models.PricingEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts one pricing row
func (r *pricingRepository) Create(ctx context.Context, entry *models.PricingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// UpdateFields partially updates one row by id and reports rows affected
func (r *pricingRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.PricingEntry{}).
		Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete removes one pricing row by its ID
func (r *pricingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PricingEntry{}, id).Error
}

// UpdatePricingEntry applies a bulk-edit update by id, stamping updated_at.
// Zero rows affected with a nil error means the id is stale.
func (r *pricingRepository) UpdatePricingEntry(ctx context.Context, id uint, update pricing.EntryUpdate) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.PricingEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"base_price":       update.BasePrice,
			"discounted_price": update.DiscountedPrice,
			"is_active":        true,
			"updated_at":       time.Now(),
		})
	return result.RowsAffected, result.Error
}

// UpsertPricingEntry creates the row or updates the existing one sharing its
// composite (model_id, service_id, pricing_tier) key. Racing writers resolve
// through the store's uniqueness constraint, last write winning.
func (r *pricingRepository) UpsertPricingEntry(ctx context.Context, entry *models.PricingEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "model_id"},
			{Name: "service_id"},
			{Name: "pricing_tier"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"base_price", "discounted_price", "is_active", "updated_at"}),
	}).Create(entry).Error
}

// FindActivePricing finds the active row for one composite key; (nil, nil)
// when no active row exists
func (r *pricingRepository) FindActivePricing(ctx context.Context, modelID, serviceID uint, tier models.PricingTier) (*models.PricingEntry, error) {
	var entry models.PricingEntry
	err := r.db.WithContext(ctx).
		Where("model_id = ? AND service_id = ? AND pricing_tier = ? AND is_active = ?", modelID, serviceID, tier, true).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
