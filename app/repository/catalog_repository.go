package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fixlocal/fixlocal/app/models"
)

// catalogRepository implements the CatalogRepository interface
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository instance
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// DeviceTypes retrieves all active device types
func (r *catalogRepository) DeviceTypes(ctx context.Context) ([]models.DeviceType, error) {
	var deviceTypes []models.DeviceType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("sort_order, name").Find(&deviceTypes).Error
	return deviceTypes, err
}

// Brands retrieves all active brands
func (r *catalogRepository) Brands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("sort_order, name").Find(&brands).Error
	return brands, err
}

// DeviceModels retrieves all active device models
func (r *catalogRepository) DeviceModels(ctx context.Context) ([]models.DeviceModel, error) {
	var deviceModels []models.DeviceModel
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("sort_order, name").Find(&deviceModels).Error
	return deviceModels, err
}

// Services retrieves all active services
func (r *catalogRepository) Services(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("sort_order, name").Find(&services).Error
	return services, err
}

// PricingEntriesPage retrieves one page of pricing rows ordered by id
func (r *catalogRepository) PricingEntriesPage(ctx context.Context, offset, limit int) ([]models.PricingEntry, error) {
	var entries []models.PricingEntry
	err := r.db.WithContext(ctx).Order("id").
		Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// FindDeviceModel resolves a model by device type, brand and model names.
// Returns (nil, nil) when nothing matches.
func (r *catalogRepository) FindDeviceModel(ctx context.Context, deviceType, brand, model string) (*models.DeviceModel, error) {
	var deviceModel models.DeviceModel
	err := r.db.WithContext(ctx).
		Joins("JOIN brands ON brands.id = device_models.brand_id").
		Joins("JOIN device_types ON device_types.id = device_models.type_id").
		Where("LOWER(device_types.name) = LOWER(?)", deviceType).
		Where("LOWER(brands.name) = LOWER(?)", brand).
		Where("LOWER(device_models.name) = LOWER(?)", model).
		Where("device_models.is_active = ?", true).
		First(&deviceModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deviceModel, nil
}

// FindService resolves a service by device type and service name. The name
// may be the machine slug or the human display name; both conventions are in
// use across the system. Returns (nil, nil) when nothing matches.
func (r *catalogRepository) FindService(ctx context.Context, deviceType, service string) (*models.Service, error) {
	var svc models.Service
	err := r.db.WithContext(ctx).
		Joins("JOIN device_types ON device_types.id = services.device_type_id").
		Where("LOWER(device_types.name) = LOWER(?)", deviceType).
		Where("LOWER(services.name) = LOWER(?) OR LOWER(services.display_name) = LOWER(?)", service, service).
		Where("services.is_active = ?", true).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
