package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
)

// MaxBulkEntries caps one reconciliation batch. Larger edits must be split;
// a request-level 400 is returned above this, never a partial run.
const MaxBulkEntries = 500

// BulkEntry is one admin-edited cell coming back from the coverage matrix.
type BulkEntry struct {
	ServiceID       uint     `json:"service_id" validate:"required"`
	ModelID         uint     `json:"model_id" validate:"required"`
	PricingTier     string   `json:"pricing_tier" validate:"required"`
	BasePrice       *float64 `json:"base_price" validate:"required"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`
	ExistingID      *uint    `json:"existing_id,omitempty"`
}

// BulkResult summarizes a batch. The batch is never transactional: entries
// before a failing one stay committed, and each failure is one line in Errors.
type BulkResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// EntryUpdate carries the fields an update-by-id writes. The store stamps
// updated_at alongside.
type EntryUpdate struct {
	BasePrice       decimal.Decimal
	DiscountedPrice decimal.NullDecimal
}

// EntryStore is the slice of the pricing table the resolver writes through.
type EntryStore interface {
	// UpdatePricingEntry updates one row by id and returns the number of rows
	// affected. Zero rows with a nil error means the id no longer exists.
	UpdatePricingEntry(ctx context.Context, id uint, update EntryUpdate) (int64, error)
	// UpsertPricingEntry creates the row or, when the composite
	// (model_id, service_id, pricing_tier) already exists, updates it in place.
	UpsertPricingEntry(ctx context.Context, entry *models.PricingEntry) error
}

// BulkResolver reconciles admin bulk edits into the pricing table with
// per-entry isolation: one bad row never aborts the batch.
type BulkResolver struct {
	store    EntryStore
	validate *validator.Validate
	log      *zap.Logger
}

// NewBulkResolver creates a resolver writing through the given store.
func NewBulkResolver(store EntryStore) *BulkResolver {
	return &BulkResolver{
		store:    store,
		validate: validator.New(),
		log:      logging.Module("pricing/bulk"),
	}
}

// Apply processes entries sequentially and independently. Input order has no
// semantic effect beyond the 1-based index in error messages. Re-submitting
// the same batch is safe: entries without an existing_id go through the
// composite-key upsert.
func (r *BulkResolver) Apply(ctx context.Context, entries []BulkEntry) BulkResult {
	result := BulkResult{
		Total:  len(entries),
		Errors: []string{},
	}

	log := r.log.With(zap.String("batch_id", uuid.NewString()))
	log.Info("applying bulk pricing batch", zap.Int("entries", len(entries)))

	for i, entry := range entries {
		if err := r.applyEntry(ctx, entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: %v", i+1, err))
			log.Warn("bulk entry failed", zap.Int("entry", i+1), zap.Error(err))
			continue
		}
		result.Succeeded++
	}

	log.Info("bulk pricing batch complete",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result
}

func (r *BulkResolver) applyEntry(ctx context.Context, entry BulkEntry) error {
	if err := r.validate.Struct(entry); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}

	tier, err := models.ParsePricingTier(entry.PricingTier)
	if err != nil {
		return err
	}

	base, err := parsePrice("base_price", *entry.BasePrice)
	if err != nil {
		return err
	}

	var discounted decimal.NullDecimal
	if entry.DiscountedPrice != nil {
		d, err := parsePrice("discounted_price", *entry.DiscountedPrice)
		if err != nil {
			return err
		}
		if d.GreaterThan(base) {
			return fmt.Errorf("discounted_price %s exceeds base_price %s", d, base)
		}
		discounted = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	if entry.ExistingID != nil {
		rows, err := r.store.UpdatePricingEntry(ctx, *entry.ExistingID, EntryUpdate{
			BasePrice:       base,
			DiscountedPrice: discounted,
		})
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}
		if rows == 0 {
			// A silent no-op is not success: the row was deleted or the id is stale.
			return fmt.Errorf("pricing entry %d no longer exists", *entry.ExistingID)
		}
		return nil
	}

	row := &models.PricingEntry{
		ServiceID:       entry.ServiceID,
		ModelID:         entry.ModelID,
		PricingTier:     tier,
		BasePrice:       base,
		DiscountedPrice: discounted,
		IsActive:        true,
	}
	if err := r.store.UpsertPricingEntry(ctx, row); err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

func parsePrice(field string, value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, fmt.Errorf("%s must be a finite number", field)
	}
	price := decimal.NewFromFloat(value)
	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be greater than zero", field)
	}
	return price, nil
}
