package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

// PricingService manages workbook line items. Every mutation appends a
// history row carrying a full JSON snapshot of the line at that moment.
type PricingService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPricingService constructs a PricingService using the provided database
// handle.
func NewPricingService(db *gorm.DB) (*PricingService, error) {
	if db == nil {
		return nil, errors.New("pricing service: db is required")
	}
	return &PricingService{db: db, now: time.Now}, nil
}

// ListPricingsInput filters and paginates the pricing listing.
type ListPricingsInput struct {
	Page     int
	PerPage  int
	Query    string
	Category string
	Brand    string
	Location string
}

// List returns pricing lines matching the filter together with the total
// count.
func (s *PricingService) List(ctx context.Context, input ListPricingsInput) ([]models.ProductPricing, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalisePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.ProductPricing{})
	if q := strings.TrimSpace(input.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(item_code) LIKE ? OR LOWER(product_name) LIKE ?", like, like)
	}
	if input.Category != "" {
		query = query.Where("category = ?", input.Category)
	}
	if input.Brand != "" {
		query = query.Where("brand = ?", input.Brand)
	}
	if input.Location != "" {
		query = query.Where("location = ?", input.Location)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("pricing service: count pricings: %w", err)
	}

	var pricings []models.ProductPricing
	err := query.
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&pricings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("pricing service: list pricings: %w", err)
	}
	return pricings, total, nil
}

// Get loads a single pricing line.
func (s *PricingService) Get(ctx context.Context, pricingID uint) (*models.ProductPricing, error) {
	ctx = ensureContext(ctx)
	var pricing models.ProductPricing
	err := s.db.WithContext(ctx).First(&pricing, pricingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("pricing service: load pricing: %w", err)
	}
	return &pricing, nil
}

// Create inserts a pricing line and records a CREATE history entry
// attributed to actor.
func (s *PricingService) Create(ctx context.Context, actor string, pricing *models.ProductPricing) (*models.ProductPricing, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(pricing.ItemCode) == "" {
		return nil, apperrors.NewBadRequest("item code is required")
	}
	if pricing.Quantity < 1 {
		pricing.Quantity = 1
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pricing).Error; err != nil {
			return fmt.Errorf("pricing service: create pricing: %w", err)
		}
		return s.recordHistory(tx, pricing, models.PricingChangeCreate, actor)
	})
	if err != nil {
		return nil, err
	}
	return pricing, nil
}

// Update replaces a pricing line's fields and records an UPDATE history
// entry attributed to actor.
func (s *PricingService) Update(ctx context.Context, actor string, pricingID uint, updated *models.ProductPricing) (*models.ProductPricing, error) {
	ctx = ensureContext(ctx)

	current, err := s.Get(ctx, pricingID)
	if err != nil {
		return nil, err
	}

	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	if strings.TrimSpace(updated.ItemCode) == "" {
		updated.ItemCode = current.ItemCode
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(updated).Error; err != nil {
			return fmt.Errorf("pricing service: update pricing: %w", err)
		}
		return s.recordHistory(tx, updated, models.PricingChangeUpdate, actor)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a pricing line, recording a final DELETE history entry with
// the last known state of the row.
func (s *PricingService) Delete(ctx context.Context, actor string, pricingID uint) error {
	ctx = ensureContext(ctx)

	pricing, err := s.Get(ctx, pricingID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.recordHistory(tx, pricing, models.PricingChangeDelete, actor); err != nil {
			return err
		}
		if err := tx.Delete(&models.ProductPricing{}, pricingID).Error; err != nil {
			return fmt.Errorf("pricing service: delete pricing: %w", err)
		}
		return nil
	})
}

// HistoryEntry is one change to a pricing line, optionally narrowed to a
// single snapshot column.
type HistoryEntry struct {
	ID         uint      `json:"id"`
	ChangeType string    `json:"changeType"`
	ChangedBy  string    `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
	Snapshot   any       `json:"snapshot,omitempty"`
	Value      any       `json:"value,omitempty"`
}

// Histories returns the change log of a pricing line, newest first. When
// column names a snapshot field, each entry carries just that field's value
// instead of the full snapshot.
func (s *PricingService) Histories(ctx context.Context, pricingID uint, page, perPage int, column string) ([]HistoryEntry, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage = normalisePage(page, perPage)

	if _, err := s.Get(ctx, pricingID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, 0, err
		}
		// Deleted lines keep their history; fall through if any rows exist.
	}

	query := s.db.WithContext(ctx).
		Model(&models.ProductPricingHistory{}).
		Where("product_pricing_id = ?", pricingID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("pricing service: count histories: %w", err)
	}
	if total == 0 {
		return nil, 0, apperrors.ErrNotFound
	}

	var rows []models.ProductPricingHistory
	err := query.
		Order("changed_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("pricing service: list histories: %w", err)
	}

	column = strings.TrimSpace(column)
	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := HistoryEntry{
			ID:         row.ID,
			ChangeType: row.ChangeType,
			ChangedBy:  row.ChangedBy,
			ChangedAt:  row.ChangedAt,
		}
		var snapshot map[string]any
		if err := json.Unmarshal(row.Snapshot, &snapshot); err != nil {
			return nil, 0, fmt.Errorf("pricing service: decode snapshot %d: %w", row.ID, err)
		}
		if column == "" {
			entry.Snapshot = snapshot
		} else {
			entry.Value = snapshot[column]
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// PurgeHistoriesBefore deletes history rows older than the cutoff and
// returns how many were removed. The maintenance cleaner calls this on a
// schedule.
func (s *PricingService) PurgeHistoriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("changed_at < ?", cutoff).
		Delete(&models.ProductPricingHistory{})
	if result.Error != nil {
		return 0, fmt.Errorf("pricing service: purge histories: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *PricingService) recordHistory(tx *gorm.DB, pricing *models.ProductPricing, changeType, actor string) error {
	snapshot, err := json.Marshal(pricing)
	if err != nil {
		return fmt.Errorf("pricing service: snapshot pricing %d: %w", pricing.ID, err)
	}
	history := models.ProductPricingHistory{
		ProductPricingID: pricing.ID,
		ChangeType:       changeType,
		ChangedBy:        actor,
		ChangedAt:        s.now().UTC(),
		Snapshot:         datatypes.JSON(snapshot),
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("pricing service: record history: %w", err)
	}
	return nil
}
