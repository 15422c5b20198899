package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/quote"
)

type stubQuoteStore struct {
	model   *models.DeviceModel
	service *models.Service
	entry   *models.PricingEntry
}

func (s *stubQuoteStore) FindDeviceModel(ctx context.Context, deviceType, brand, model string) (*models.DeviceModel, error) {
	return s.model, nil
}

func (s *stubQuoteStore) FindService(ctx context.Context, deviceType, service string) (*models.Service, error) {
	return s.service, nil
}

func (s *stubQuoteStore) FindActivePricing(ctx context.Context, modelID, serviceID uint, tier models.PricingTier) (*models.PricingEntry, error) {
	return s.entry, nil
}

func newQuoteApp(store quote.Store) *fiber.App {
	quoteResolver = quote.NewResolver(store)
	app := fiber.New()
	app.Get("/quote", HandleGetQuote)
	return app
}

func TestHandleGetQuoteMissingParams(t *testing.T) {
	app := newQuoteApp(&stubQuoteStore{})

	req := httptest.NewRequest(http.MethodGet, "/quote?device_type=mobile&brand=Apple", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetQuoteInvalidTier(t *testing.T) {
	app := newQuoteApp(&stubQuoteStore{})

	req := httptest.NewRequest(http.MethodGet, "/quote?device_type=mobile&brand=Apple&model=iPhone+16&service=screen_replacement&tier=gold", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetQuoteFromPricingTable(t *testing.T) {
	app := newQuoteApp(&stubQuoteStore{
		model:   &models.DeviceModel{ID: 1, Name: "iPhone 16"},
		service: &models.Service{ID: 2, Name: "screen_replacement", DisplayName: "Screen Replacement"},
		entry: &models.PricingEntry{
			ID:          9,
			ServiceID:   2,
			ModelID:     1,
			PricingTier: models.TierStandard,
			BasePrice:   decimal.NewFromInt(129),
			IsActive:    true,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/quote?device_type=mobile&brand=Apple&model=iPhone+16&service=screen_replacement", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool         `json:"success"`
		Quote   quote.Result `json:"quote"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, quote.SourceCatalog, body.Quote.Source)
	assert.True(t, body.Quote.Price.Equal(decimal.NewFromInt(129)))
}

func TestHandleGetQuoteFallsBack(t *testing.T) {
	app := newQuoteApp(&stubQuoteStore{})

	req := httptest.NewRequest(http.MethodGet, "/quote?device_type=mobile&brand=Apple&model=iPhone+16&service=screen_replacement&tier=premium", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool         `json:"success"`
		Quote   quote.Result `json:"quote"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, quote.SourceFallback, body.Quote.Source)
	assert.True(t, body.Quote.Price.Equal(decimal.NewFromInt(186)))
}
