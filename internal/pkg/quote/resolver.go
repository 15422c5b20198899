// Package quote resolves a final quoted price for one catalog combination at
// booking time. It shares the fallback calculator with the coverage matrix so
// the admin view and the customer quote always agree.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
)

// Source tells the caller where a quoted price came from. A fallback price is
// always available but is a last resort, not a validated catalog price.
type Source string

const (
	SourceCatalog   Source = "catalog"
	SourcePromotion Source = "promotion"
	SourceFallback  Source = "fallback"
)

// Store is the catalog slice the resolver reads. Lookups return (nil, nil)
// when nothing matches; only store-level failures surface as errors.
type Store interface {
	FindDeviceModel(ctx context.Context, deviceType, brand, model string) (*models.DeviceModel, error)
	FindService(ctx context.Context, deviceType, service string) (*models.Service, error)
	FindActivePricing(ctx context.Context, modelID, serviceID uint, tier models.PricingTier) (*models.PricingEntry, error)
}

// Request identifies one quotable combination by catalog names.
type Request struct {
	DeviceType string
	Brand      string
	Model      string
	Service    string
	Tier       models.PricingTier
}

// Result is one resolved quote.
type Result struct {
	Price       decimal.Decimal    `json:"price"`
	BasePrice   decimal.Decimal    `json:"base_price"`
	Source      Source             `json:"source"`
	Tier        models.PricingTier `json:"tier"`
	DeviceType  string             `json:"device_type"`
	Brand       string             `json:"brand"`
	Model       string             `json:"model"`
	Service     string             `json:"service"`
	ServiceName string             `json:"service_display_name,omitempty"`
}

// Resolver answers price quotes. It never fails to produce a price: when no
// active pricing row matches, the deterministic fallback calculator answers.
type Resolver struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store: store,
		now:   time.Now,
		log:   logging.Module("quote"),
	}
}

// Resolve quotes one combination. The pricing table wins when an active row
// exists: a discounted price inside its promotional window is preferred over
// the base price. Anything unresolvable falls through to the fallback
// calculator, so a booking is always quotable.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	result := &Result{
		Tier:       req.Tier,
		DeviceType: req.DeviceType,
		Brand:      req.Brand,
		Model:      req.Model,
		Service:    req.Service,
	}

	deviceModel, err := r.store.FindDeviceModel(ctx, req.DeviceType, req.Brand, req.Model)
	if err != nil {
		return nil, fmt.Errorf("looking up model: %w", err)
	}
	service, err := r.store.FindService(ctx, req.DeviceType, req.Service)
	if err != nil {
		return nil, fmt.Errorf("looking up service: %w", err)
	}

	if deviceModel == nil || service == nil {
		return r.fallback(req, result), nil
	}
	result.ServiceName = service.DisplayName

	entry, err := r.store.FindActivePricing(ctx, deviceModel.ID, service.ID, req.Tier)
	if err != nil {
		return nil, fmt.Errorf("looking up pricing: %w", err)
	}
	if entry == nil {
		return r.fallback(req, result), nil
	}

	result.BasePrice = entry.BasePrice
	if entry.PromotionActiveAt(r.now()) {
		result.Price = entry.DiscountedPrice.Decimal
		result.Source = SourcePromotion
	} else {
		result.Price = entry.BasePrice
		result.Source = SourceCatalog
	}

	r.log.Debug("quote resolved from pricing table",
		zap.Uint("model_id", deviceModel.ID),
		zap.Uint("service_id", service.ID),
		zap.String("tier", string(req.Tier)),
		zap.String("source", string(result.Source)))

	return result, nil
}

func (r *Resolver) fallback(req Request, result *Result) *Result {
	price := pricing.FallbackPrice(req.DeviceType, req.Service, req.Tier)
	result.Price = price
	result.BasePrice = price
	result.Source = SourceFallback

	r.log.Debug("quote resolved from fallback calculator",
		zap.String("device_type", req.DeviceType),
		zap.String("service", req.Service),
		zap.String("tier", string(req.Tier)))

	return result
}
