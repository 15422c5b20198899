package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
)

type stubEntryStore struct {
	upserts []*models.PricingEntry
	updates map[uint]pricing.EntryUpdate
}

func newStubEntryStore() *stubEntryStore {
	return &stubEntryStore{updates: map[uint]pricing.EntryUpdate{}}
}

func (s *stubEntryStore) UpdatePricingEntry(ctx context.Context, id uint, update pricing.EntryUpdate) (int64, error) {
	s.updates[id] = update
	return 1, nil
}

func (s *stubEntryStore) UpsertPricingEntry(ctx context.Context, entry *models.PricingEntry) error {
	s.upserts = append(s.upserts, entry)
	return nil
}

func newBulkApp(store pricing.EntryStore) *fiber.App {
	bulkResolver = pricing.NewBulkResolver(store)
	app := fiber.New()
	app.Post("/pricing/bulk", HandleBulkPricing)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleBulkPricingEmptyEntries(t *testing.T) {
	app := newBulkApp(newStubEntryStore())

	resp := postJSON(t, app, "/pricing/bulk", map[string]interface{}{"entries": []pricing.BulkEntry{}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleBulkPricingTooManyEntries(t *testing.T) {
	app := newBulkApp(newStubEntryStore())

	price := 99.0
	entries := make([]pricing.BulkEntry, pricing.MaxBulkEntries+1)
	for i := range entries {
		entries[i] = pricing.BulkEntry{ServiceID: 1, ModelID: uint(i + 1), PricingTier: "standard", BasePrice: &price}
	}

	resp := postJSON(t, app, "/pricing/bulk", map[string]interface{}{"entries": entries})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleBulkPricingAppliesBatch(t *testing.T) {
	store := newStubEntryStore()
	app := newBulkApp(store)

	good := 149.0
	bad := -10.0
	entries := []pricing.BulkEntry{
		{ServiceID: 1, ModelID: 1, PricingTier: "standard", BasePrice: &good},
		{ServiceID: 1, ModelID: 2, PricingTier: "premium", BasePrice: &bad},
	}

	resp := postJSON(t, app, "/pricing/bulk", map[string]interface{}{"entries": entries})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Success   bool     `json:"success"`
		Total     int      `json:"total"`
		Succeeded int      `json:"succeeded"`
		Failed    int      `json:"failed"`
		Errors    []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Entry 2:")
	require.Len(t, store.upserts, 1)
	assert.Equal(t, uint(1), store.upserts[0].ModelID)
}

func TestHandleUpdatePricingMissingID(t *testing.T) {
	app := fiber.New()
	app.Put("/pricing", HandleUpdatePricing)

	req := httptest.NewRequest(http.MethodPut, "/pricing", bytes.NewReader([]byte(`{"base_price": 10}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleCreatePricingRejectsInvalidTier(t *testing.T) {
	app := fiber.New()
	app.Post("/pricing", HandleCreatePricing)

	price := 99.0
	resp := postJSON(t, app, "/pricing", createPricingRequest{
		ServiceID:   1,
		ModelID:     1,
		PricingTier: "gold",
		BasePrice:   &price,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleDeletePricingMissingID(t *testing.T) {
	app := fiber.New()
	app.Delete("/pricing", HandleDeletePricing)

	req := httptest.NewRequest(http.MethodDelete, "/pricing", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPriceFromFloat(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{value: 149, wantErr: false},
		{value: 0.01, wantErr: false},
		{value: 0, wantErr: true},
		{value: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.value), func(t *testing.T) {
			price, err := priceFromFloat("base_price", tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, price.IsPositive())
		})
	}
}
