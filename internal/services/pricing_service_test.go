package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

func TestPricingMutationsRecordHistory(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPricingService(db)
	require.NoError(t, err)

	ctx := context.Background()
	pricing, err := svc.Create(ctx, "alice@example.com", &models.ProductPricing{
		ItemCode:     "CHAIR-001",
		ProductName:  "Lounge chair",
		ListPriceEUR: 1200,
	})
	require.NoError(t, err)

	pricing.ListPriceEUR = 1350
	_, err = svc.Update(ctx, "bob@example.com", pricing.ID, pricing)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice@example.com", pricing.ID))

	entries, total, err := svc.Histories(ctx, pricing.ID, 1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	// Newest first: DELETE, UPDATE, CREATE.
	require.Equal(t, models.PricingChangeDelete, entries[0].ChangeType)
	require.Equal(t, models.PricingChangeUpdate, entries[1].ChangeType)
	require.Equal(t, models.PricingChangeCreate, entries[2].ChangeType)
	require.Equal(t, "bob@example.com", entries[1].ChangedBy)

	snapshot, ok := entries[2].Snapshot.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "CHAIR-001", snapshot["itemCode"])
}

func TestPricingHistoryColumnFilter(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPricingService(db)
	require.NoError(t, err)

	ctx := context.Background()
	pricing, err := svc.Create(ctx, "alice@example.com", &models.ProductPricing{
		ItemCode:     "SOFA-002",
		ListPriceEUR: 4000,
	})
	require.NoError(t, err)

	pricing.ListPriceEUR = 4500
	_, err = svc.Update(ctx, "alice@example.com", pricing.ID, pricing)
	require.NoError(t, err)

	entries, _, err := svc.Histories(ctx, pricing.ID, 1, 10, "listPriceEur")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Nil(t, entries[0].Snapshot)
	require.EqualValues(t, 4500, entries[0].Value)
	require.EqualValues(t, 4000, entries[1].Value)
}

func TestPricingHistoriesUnknownLine(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPricingService(db)
	require.NoError(t, err)

	_, _, err = svc.Histories(context.Background(), 99999, 1, 10, "")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPurgeHistoriesBefore(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPricingService(db)
	require.NoError(t, err)

	ctx := context.Background()
	pricing, err := svc.Create(ctx, "alice@example.com", &models.ProductPricing{ItemCode: "TABLE-003"})
	require.NoError(t, err)

	// Age the CREATE entry past the cutoff, then add a fresh UPDATE.
	require.NoError(t, db.Model(&models.ProductPricingHistory{}).
		Where("product_pricing_id = ?", pricing.ID).
		Update("changed_at", time.Now().Add(-400*24*time.Hour)).Error)

	pricing.Quantity = 4
	_, err = svc.Update(ctx, "alice@example.com", pricing.ID, pricing)
	require.NoError(t, err)

	removed, err := svc.PurgeHistoriesBefore(ctx, time.Now().Add(-365*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, total, err := svc.Histories(ctx, pricing.ID, 1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}
