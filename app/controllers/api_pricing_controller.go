package controllers

import (
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/app/repository"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
)

// pricingRow is the flattened listing shape: one pricing entry joined with
// the catalog names a pricing screen needs to render it.
type pricingRow struct {
	ID              uint                `json:"id"`
	ServiceID       uint                `json:"service_id"`
	ModelID         uint                `json:"model_id"`
	PricingTier     models.PricingTier  `json:"pricing_tier"`
	TierName        string              `json:"tier_name"`
	BasePrice       decimal.Decimal     `json:"base_price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price"`
	CostPrice       decimal.NullDecimal `json:"cost_price"`
	IsActive        bool                `json:"is_active"`
	ServiceName     string              `json:"service_name"`
	ModelName       string              `json:"model_name"`
	BrandName       string              `json:"brand_name"`
	DeviceType      string              `json:"device_type"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toPricingRow(entry models.PricingEntry) pricingRow {
	row := pricingRow{
		ID:              entry.ID,
		ServiceID:       entry.ServiceID,
		ModelID:         entry.ModelID,
		PricingTier:     entry.PricingTier,
		TierName:        entry.PricingTier.DisplayName(),
		BasePrice:       entry.BasePrice,
		DiscountedPrice: entry.DiscountedPrice,
		CostPrice:       entry.CostPrice,
		IsActive:        entry.IsActive,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
	row.ServiceName = entry.Service.DisplayName
	if row.ServiceName == "" {
		row.ServiceName = entry.Service.Name
	}
	row.ModelName = entry.Model.DisplayName
	if row.ModelName == "" {
		row.ModelName = entry.Model.Name
	}
	row.BrandName = entry.Model.Brand.Name
	row.DeviceType = entry.Model.DeviceType.Name
	return row
}

// HandleListPricing returns pricing entries, optionally filtered by model,
// service or tier via query parameters.
func HandleListPricing(c *fiber.Ctx) error {
	var filter repository.PricingFilter
	if raw := c.Query("model_id"); raw != "" {
		id, err := parseQueryUint(raw)
		if err != nil {
			return badRequest(c, "model_id must be a positive integer")
		}
		filter.ModelID = &id
	}
	if raw := c.Query("service_id"); raw != "" {
		id, err := parseQueryUint(raw)
		if err != nil {
			return badRequest(c, "service_id must be a positive integer")
		}
		filter.ServiceID = &id
	}
	// tier_id carries the tier name; tiers are not a catalog table.
	if raw := c.Query("tier_id"); raw != "" {
		tier, err := models.ParsePricingTier(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		filter.Tier = &tier
	}

	repo := repository.GetGlobalFactory().GetPricingRepository()
	entries, err := repo.List(c.Context(), filter)
	if err != nil {
		logging.Module("pricing").Error("failed to list pricing entries", zap.Error(err))
		return internalError(c, "Failed to load pricing entries")
	}

	rows := make([]pricingRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, toPricingRow(entry))
	}

	return c.JSON(fiber.Map{"success": true, "pricing": rows, "count": len(rows)})
}

type createPricingRequest struct {
	ServiceID       uint     `json:"service_id"`
	ModelID         uint     `json:"model_id"`
	PricingTier     string   `json:"pricing_tier_id"`
	BasePrice       *float64 `json:"base_price"`
	DiscountedPrice *float64 `json:"discounted_price"`
	CostPrice       *float64 `json:"cost_price"`
	IsActive        *bool    `json:"is_active"`
}

// HandleCreatePricing inserts a single pricing entry. The composite
// uniqueness of (model, service, tier) is enforced by the store; a duplicate
// surfaces as a store error rather than a silent overwrite.
func HandleCreatePricing(c *fiber.Ctx) error {
	var req createPricingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ServiceID == 0 || req.ModelID == 0 {
		return badRequest(c, "service_id and model_id are required")
	}
	tier, err := models.ParsePricingTier(req.PricingTier)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if req.BasePrice == nil {
		return badRequest(c, "base_price is required")
	}
	basePrice, err := priceFromFloat("base_price", *req.BasePrice)
	if err != nil {
		return badRequest(c, err.Error())
	}

	entry := models.PricingEntry{
		ServiceID:   req.ServiceID,
		ModelID:     req.ModelID,
		PricingTier: tier,
		BasePrice:   basePrice,
		IsActive:    true,
	}
	if req.DiscountedPrice != nil {
		discounted, err := priceFromFloat("discounted_price", *req.DiscountedPrice)
		if err != nil {
			return badRequest(c, err.Error())
		}
		if discounted.GreaterThan(basePrice) {
			return badRequest(c, "discounted_price must not exceed base_price")
		}
		entry.DiscountedPrice = decimal.NullDecimal{Decimal: discounted, Valid: true}
	}
	if req.CostPrice != nil {
		cost, err := priceFromFloat("cost_price", *req.CostPrice)
		if err != nil {
			return badRequest(c, err.Error())
		}
		entry.CostPrice = decimal.NullDecimal{Decimal: cost, Valid: true}
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	repo := repository.GetGlobalFactory().GetPricingRepository()
	if err := repo.Create(c.Context(), &entry); err != nil {
		logging.Module("pricing").Error("failed to create pricing entry",
			zap.Uint("model_id", req.ModelID), zap.Uint("service_id", req.ServiceID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to create pricing entry: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "pricing": toPricingRow(entry)})
}

type updatePricingRequest struct {
	BasePrice       *float64 `json:"base_price"`
	DiscountedPrice *float64 `json:"discounted_price"`
	CostPrice       *float64 `json:"cost_price"`
	IsActive        *bool    `json:"is_active"`
}

// HandleUpdatePricing partially updates the entry addressed by the id query
// parameter. Only fields present in the body are written.
func HandleUpdatePricing(c *fiber.Ctx) error {
	id, ok := parseIDQuery(c)
	if !ok {
		return badRequest(c, "id query parameter is required")
	}

	var req updatePricingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	fields := map[string]interface{}{}
	var basePrice *decimal.Decimal
	if req.BasePrice != nil {
		price, err := priceFromFloat("base_price", *req.BasePrice)
		if err != nil {
			return badRequest(c, err.Error())
		}
		basePrice = &price
		fields["base_price"] = price
	}
	if req.DiscountedPrice != nil {
		discounted, err := priceFromFloat("discounted_price", *req.DiscountedPrice)
		if err != nil {
			return badRequest(c, err.Error())
		}
		if basePrice != nil && discounted.GreaterThan(*basePrice) {
			return badRequest(c, "discounted_price must not exceed base_price")
		}
		fields["discounted_price"] = discounted
	}
	if req.CostPrice != nil {
		cost, err := priceFromFloat("cost_price", *req.CostPrice)
		if err != nil {
			return badRequest(c, err.Error())
		}
		fields["cost_price"] = cost
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return badRequest(c, "No updatable fields in request body")
	}
	fields["updated_at"] = time.Now()

	repo := repository.GetGlobalFactory().GetPricingRepository()
	rows, err := repo.UpdateFields(c.Context(), id, fields)
	if err != nil {
		logging.Module("pricing").Error("failed to update pricing entry", zap.Uint("id", id), zap.Error(err))
		return internalError(c, "Failed to update pricing entry")
	}
	if rows == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Pricing entry not found"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Pricing entry updated"})
}

// HandleDeletePricing removes the entry addressed by the id query parameter.
func HandleDeletePricing(c *fiber.Ctx) error {
	id, ok := parseIDQuery(c)
	if !ok {
		return badRequest(c, "id query parameter is required")
	}

	repo := repository.GetGlobalFactory().GetPricingRepository()
	if err := repo.Delete(c.Context(), id); err != nil {
		logging.Module("pricing").Error("failed to delete pricing entry", zap.Uint("id", id), zap.Error(err))
		return internalError(c, "Failed to delete pricing entry")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Pricing entry deleted"})
}

type bulkPricingRequest struct {
	Entries []pricing.BulkEntry `json:"entries"`
}

// HandleBulkPricing applies a batch of pricing updates and inserts. Entries
// fail or succeed independently; the response always reports per-entry
// outcomes with HTTP 200 unless the batch itself is malformed.
func HandleBulkPricing(c *fiber.Ctx) error {
	var req bulkPricingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Entries) == 0 {
		return badRequest(c, "entries is required and must not be empty")
	}
	if len(req.Entries) > pricing.MaxBulkEntries {
		return badRequest(c, fmt.Sprintf("too many entries: %d exceeds the maximum of %d", len(req.Entries), pricing.MaxBulkEntries))
	}

	result := bulkResolver.Apply(c.Context(), req.Entries)

	return c.JSON(fiber.Map{
		"success":   true,
		"total":     result.Total,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"errors":    result.Errors,
	})
}

func priceFromFloat(field string, value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, fmt.Errorf("%s must be a finite number", field)
	}
	if value <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%s must be greater than zero", field)
	}
	return decimal.NewFromFloat(value).Round(2), nil
}
