// Package coverage builds the pricing coverage matrix: the cross-product of
// every valid (model, service, tier) combination classified against the
// sparse pricing table.
package coverage

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
)

// Existing pricing rows are read in pages of this size, ordered by id, so the
// matrix read stays bounded without silently truncating large tables.
const pricingPageSize = 2000

// Source is the read-only slice of the catalog store the builder consumes.
// Implementations return active catalog rows only.
type Source interface {
	DeviceTypes(ctx context.Context) ([]models.DeviceType, error)
	Brands(ctx context.Context) ([]models.Brand, error)
	DeviceModels(ctx context.Context) ([]models.DeviceModel, error)
	Services(ctx context.Context) ([]models.Service, error)
	PricingEntriesPage(ctx context.Context, offset, limit int) ([]models.PricingEntry, error)
}

// Cell is one (model, service, tier) combination and its priced/missing
// status. Cells are computed, never persisted; the raw ids let the admin
// matrix write an edit straight back as a bulk entry.
type Cell struct {
	DeviceType    string             `json:"device_type"`
	BrandName     string             `json:"brand_name"`
	ModelName     string             `json:"model_name"`
	ServiceName   string             `json:"service_name"`
	PricingTier   models.PricingTier `json:"pricing_tier"`
	IsMissing     bool               `json:"is_missing"`
	ExistingPrice *decimal.Decimal   `json:"existing_price,omitempty"`
	FallbackPrice *decimal.Decimal   `json:"fallback_price,omitempty"`
	ServiceID     uint               `json:"service_id"`
	ModelID       uint               `json:"model_id"`
	ExistingID    *uint              `json:"existing_id,omitempty"`
}

// Summary aggregates one matrix build. OrphanedPricingRows counts pricing
// rows dropped because a joined catalog entity no longer resolves; a nonzero
// value is a data-integrity signal, not an error.
type Summary struct {
	TotalCombinations   int     `json:"total_combinations"`
	ExistingEntries     int     `json:"existing_entries"`
	MissingEntries      int     `json:"missing_entries"`
	CoveragePercentage  float64 `json:"coverage_percentage"`
	OrphanedPricingRows int     `json:"orphaned_pricing_rows"`
}

// Matrix is the full build output.
type Matrix struct {
	Cells   []Cell  `json:"coverage"`
	Summary Summary `json:"summary"`
}

// Builder computes coverage matrices. It is read-only and holds no state
// between builds.
type Builder struct {
	source Source
	log    *zap.Logger
}

// NewBuilder creates a Builder over the given catalog source.
func NewBuilder(source Source) *Builder {
	return &Builder{
		source: source,
		log:    logging.Module("coverage"),
	}
}

// Build fetches the catalog and the pricing table, computes the cross-product
// of valid combinations and classifies every cell. Validity means the
// service's device type matches the model's own TypeID; there is no further
// filtering, so every service is considered for every model of the matching
// device type.
func (b *Builder) Build(ctx context.Context) (*Matrix, error) {
	var (
		deviceTypes  []models.DeviceType
		brands       []models.Brand
		deviceModels []models.DeviceModel
		services     []models.Service
		pricingRows  []models.PricingEntry
	)

	// One bulk read per table instead of per-cell queries: the cross-product
	// makes per-cell round trips O(models x services x tiers).
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { deviceTypes, err = b.source.DeviceTypes(gctx); return err })
	g.Go(func() (err error) { brands, err = b.source.Brands(gctx); return err })
	g.Go(func() (err error) { deviceModels, err = b.source.DeviceModels(gctx); return err })
	g.Go(func() (err error) { services, err = b.source.Services(gctx); return err })
	g.Go(func() error {
		for offset := 0; ; offset += pricingPageSize {
			page, err := b.source.PricingEntriesPage(gctx, offset, pricingPageSize)
			if err != nil {
				return err
			}
			pricingRows = append(pricingRows, page...)
			if len(page) < pricingPageSize {
				return nil
			}
		}
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	typeByID := make(map[uint]*models.DeviceType, len(deviceTypes))
	for i := range deviceTypes {
		typeByID[deviceTypes[i].ID] = &deviceTypes[i]
	}
	brandByID := make(map[uint]*models.Brand, len(brands))
	for i := range brands {
		brandByID[brands[i].ID] = &brands[i]
	}
	modelByID := make(map[uint]*models.DeviceModel, len(deviceModels))
	modelsByBrand := make(map[uint][]*models.DeviceModel, len(brands))
	for i := range deviceModels {
		m := &deviceModels[i]
		modelByID[m.ID] = m
		modelsByBrand[m.BrandID] = append(modelsByBrand[m.BrandID], m)
	}
	serviceByID := make(map[uint]*models.Service, len(services))
	for i := range services {
		serviceByID[services[i].ID] = &services[i]
	}

	// Covered set keyed by the composite combination key. Rows whose joined
	// entities no longer resolve do not count as coverage and do not produce
	// cells either (the cross-product is driven by catalog entities), but
	// they are counted so integrity regressions stay visible.
	covered := make(map[string]*models.PricingEntry, len(pricingRows))
	orphaned := 0
	for i := range pricingRows {
		row := &pricingRows[i]
		service := serviceByID[row.ServiceID]
		deviceModel := modelByID[row.ModelID]
		if service == nil || deviceModel == nil {
			orphaned++
			continue
		}
		brand := brandByID[deviceModel.BrandID]
		deviceType := typeByID[deviceModel.TypeID]
		if brand == nil || deviceType == nil {
			orphaned++
			continue
		}
		covered[cellKey(deviceType.Name, brand.Name, deviceModel.Name, service.Name, row.PricingTier)] = row
	}

	cells := []Cell{}
	summary := Summary{OrphanedPricingRows: orphaned}

	for i := range brands {
		brand := &brands[i]
		for _, deviceModel := range modelsByBrand[brand.ID] {
			// The model's own type decides which services apply, not the brand's.
			deviceType := typeByID[deviceModel.TypeID]
			if deviceType == nil {
				continue
			}
			for j := range services {
				service := &services[j]
				if service.DeviceTypeID != deviceModel.TypeID {
					continue
				}
				for _, tier := range models.AllPricingTiers() {
					summary.TotalCombinations++
					cell := Cell{
						DeviceType:  deviceType.Name,
						BrandName:   brand.Name,
						ModelName:   deviceModel.Name,
						ServiceName: service.Name,
						PricingTier: tier,
						ServiceID:   service.ID,
						ModelID:     deviceModel.ID,
					}
					if row, ok := covered[cellKey(deviceType.Name, brand.Name, deviceModel.Name, service.Name, tier)]; ok {
						summary.ExistingEntries++
						basePrice := row.BasePrice
						existingID := row.ID
						cell.ExistingPrice = &basePrice
						cell.ExistingID = &existingID
					} else {
						summary.MissingEntries++
						cell.IsMissing = true
						fallback := pricing.FallbackPrice(deviceType.Name, service.Name, tier)
						cell.FallbackPrice = &fallback
					}
					cells = append(cells, cell)
				}
			}
		}
	}

	if summary.TotalCombinations > 0 {
		pct := float64(summary.ExistingEntries) / float64(summary.TotalCombinations) * 100
		summary.CoveragePercentage = math.Round(pct*100) / 100
	}

	b.log.Info("coverage matrix built",
		zap.Int("total_combinations", summary.TotalCombinations),
		zap.Int("existing_entries", summary.ExistingEntries),
		zap.Int("missing_entries", summary.MissingEntries),
		zap.Float64("coverage_percentage", summary.CoveragePercentage),
		zap.Int("orphaned_pricing_rows", summary.OrphanedPricingRows))

	return &Matrix{Cells: cells, Summary: summary}, nil
}

func cellKey(deviceType, brand, model, service string, tier models.PricingTier) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s-%s-%s", deviceType, brand, model, service, tier))
}
