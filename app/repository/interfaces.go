package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
)

// CatalogRepository defines read-only access to the catalog dimensions. The
// catalog is managed elsewhere; this engine only consumes it. All listing
// methods return active rows only.
type CatalogRepository interface {
	DeviceTypes(ctx context.Context) ([]models.DeviceType, error)
	Brands(ctx context.Context) ([]models.Brand, error)
	DeviceModels(ctx context.Context) ([]models.DeviceModel, error)
	Services(ctx context.Context) ([]models.Service, error)
	PricingEntriesPage(ctx context.Context, offset, limit int) ([]models.PricingEntry, error)
	FindDeviceModel(ctx context.Context, deviceType, brand, model string) (*models.DeviceModel, error)
	FindService(ctx context.Context, deviceType, service string) (*models.Service, error)
}

// PricingFilter narrows a pricing listing. Nil fields are ignored.
type PricingFilter struct {
	ModelID   *uint
	ServiceID *uint
	Tier      *models.PricingTier
}

// PricingRepository defines the interface for pricing-table operations
type PricingRepository interface {
	List(ctx context.Context, filter PricingFilter) ([]models.PricingEntry, error)
	GetByID(ctx context.Context, id uint) (*models.PricingEntry, error)
	Create(ctx context.Context, entry *models.PricingEntry) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) error

	// Bulk reconciliation write path (pricing.EntryStore).
	UpdatePricingEntry(ctx context.Context, id uint, update pricing.EntryUpdate) (int64, error)
	UpsertPricingEntry(ctx context.Context, entry *models.PricingEntry) error

	// Booking-time lookup; (nil, nil) when no active row matches.
	FindActivePricing(ctx context.Context, modelID, serviceID uint, tier models.PricingTier) (*models.PricingEntry, error)
}

// QuoteStore combines the catalog and pricing repositories into the read
// surface the quote resolver consumes.
type QuoteStore struct {
	CatalogRepository
	PricingRepository
}

// NewQuoteStore bundles both repositories for quote resolution.
func NewQuoteStore(catalog CatalogRepository, pricing PricingRepository) QuoteStore {
	return QuoteStore{CatalogRepository: catalog, PricingRepository: pricing}
}

// Repositories struct holds all repository instances
type Repositories struct {
	Catalog CatalogRepository
	Pricing PricingRepository
}

// NewRepositories creates all repositories over one database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Catalog: NewCatalogRepository(db),
		Pricing: NewPricingRepository(db),
	}
}
