package quote

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlocal/fixlocal/app/models"
)

type fakeStore struct {
	deviceModel *models.DeviceModel
	service     *models.Service
	entry       *models.PricingEntry
}

func (s *fakeStore) FindDeviceModel(_ context.Context, _, _, model string) (*models.DeviceModel, error) {
	if s.deviceModel != nil && strings.EqualFold(s.deviceModel.Name, model) {
		return s.deviceModel, nil
	}
	return nil, nil
}

func (s *fakeStore) FindService(_ context.Context, _, service string) (*models.Service, error) {
	if s.service != nil && strings.EqualFold(s.service.Name, service) {
		return s.service, nil
	}
	return nil, nil
}

func (s *fakeStore) FindActivePricing(_ context.Context, modelID, serviceID uint, tier models.PricingTier) (*models.PricingEntry, error) {
	if s.entry != nil && s.entry.ModelID == modelID && s.entry.ServiceID == serviceID && s.entry.PricingTier == tier {
		return s.entry, nil
	}
	return nil, nil
}

func catalogStore() *fakeStore {
	return &fakeStore{
		deviceModel: &models.DeviceModel{ID: 1, Name: "iPhone 16", BrandID: 1, TypeID: 1},
		service:     &models.Service{ID: 1, Name: "Screen Replacement", DisplayName: "Screen Replacement", DeviceTypeID: 1},
	}
}

func screenRequest(tier models.PricingTier) Request {
	return Request{
		DeviceType: "mobile",
		Brand:      "Apple",
		Model:      "iPhone 16",
		Service:    "Screen Replacement",
		Tier:       tier,
	}
}

func TestResolveFromPricingTable(t *testing.T) {
	store := catalogStore()
	store.entry = &models.PricingEntry{
		ID: 5, ServiceID: 1, ModelID: 1,
		PricingTier: models.TierStandard,
		BasePrice:   decimal.NewFromInt(129),
		IsActive:    true,
	}
	resolver := NewResolver(store)

	result, err := resolver.Resolve(context.Background(), screenRequest(models.TierStandard))
	require.NoError(t, err)

	assert.Equal(t, SourceCatalog, result.Source)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(129)))
	assert.Equal(t, "Screen Replacement", result.ServiceName)
}

func TestResolvePrefersActivePromotion(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	from := now.Add(-24 * time.Hour)
	until := now.Add(24 * time.Hour)

	store := catalogStore()
	store.entry = &models.PricingEntry{
		ID: 5, ServiceID: 1, ModelID: 1,
		PricingTier:     models.TierStandard,
		BasePrice:       decimal.NewFromInt(129),
		DiscountedPrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(99), Valid: true},
		ValidFrom:       &from,
		ValidUntil:      &until,
		IsActive:        true,
	}
	resolver := NewResolver(store)
	resolver.now = func() time.Time { return now }

	result, err := resolver.Resolve(context.Background(), screenRequest(models.TierStandard))
	require.NoError(t, err)

	assert.Equal(t, SourcePromotion, result.Source)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(99)))
	assert.True(t, result.BasePrice.Equal(decimal.NewFromInt(129)))
}

func TestResolveExpiredPromotionUsesBasePrice(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	from := now.Add(-72 * time.Hour)
	until := now.Add(-24 * time.Hour)

	store := catalogStore()
	store.entry = &models.PricingEntry{
		ID: 5, ServiceID: 1, ModelID: 1,
		PricingTier:     models.TierStandard,
		BasePrice:       decimal.NewFromInt(129),
		DiscountedPrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(99), Valid: true},
		ValidFrom:       &from,
		ValidUntil:      &until,
		IsActive:        true,
	}
	resolver := NewResolver(store)
	resolver.now = func() time.Time { return now }

	result, err := resolver.Resolve(context.Background(), screenRequest(models.TierStandard))
	require.NoError(t, err)

	assert.Equal(t, SourceCatalog, result.Source)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(129)))
}

func TestResolveFallsBackWithoutPricingRow(t *testing.T) {
	resolver := NewResolver(catalogStore())

	result, err := resolver.Resolve(context.Background(), screenRequest(models.TierPremium))
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, result.Source)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(186)), "price = %s", result.Price)
}

func TestResolveFallsBackForUnknownCombination(t *testing.T) {
	resolver := NewResolver(&fakeStore{})

	result, err := resolver.Resolve(context.Background(), Request{
		DeviceType: "mobile",
		Brand:      "Nokia",
		Model:      "3310",
		Service:    "Screen Replacement",
		Tier:       models.TierStandard,
	})
	require.NoError(t, err)

	// Always quotable, even off-catalog.
	assert.Equal(t, SourceFallback, result.Source)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(149)))
}

func TestResolveAgreesWithCoverageFallback(t *testing.T) {
	resolver := NewResolver(&fakeStore{})

	first, err := resolver.Resolve(context.Background(), screenRequest(models.TierStandard))
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), screenRequest(models.TierStandard))
	require.NoError(t, err)

	assert.True(t, first.Price.Equal(second.Price))
}
