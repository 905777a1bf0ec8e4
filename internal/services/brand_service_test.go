package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

func TestBrandUpdateMasksMissingGrantAsNotFound(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewBrandService(db)
	require.NoError(t, err)

	brand := &models.Brand{Name: "brand-masked"}
	require.NoError(t, db.Create(brand).Error)
	user := seedUser(t, db, "brand-masked@example.com", "secret123", seedRole(t, db, "brand-masked-role"))

	_, err = svc.Update(context.Background(), user.ID, brand.ID, BrandInput{Name: "renamed"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// A genuinely missing brand yields the same error, so a denied caller
	// cannot tell the two cases apart.
	_, err = svc.Update(context.Background(), user.ID, 99999, BrandInput{Name: "renamed"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBrandUpdateHonoursLiveGrantAndRevocation(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewBrandService(db)
	require.NoError(t, err)

	brand := &models.Brand{Name: "brand-live", Discount: 10}
	require.NoError(t, db.Create(brand).Error)
	role := seedRole(t, db, "brand-live-role")
	require.NoError(t, db.Create(&models.RoleBrandPermission{RoleID: role.ID, BrandID: brand.ID}).Error)
	user := seedUser(t, db, "brand-live@example.com", "secret123", role)

	ctx := context.Background()
	updated, err := svc.Update(ctx, user.ID, brand.ID, BrandInput{Name: "brand-live", Discount: 25})
	require.NoError(t, err)
	require.Equal(t, 25, updated.Discount)

	// Revoking the grant denies the very next request.
	require.NoError(t, db.Where("role_id = ? AND brand_id = ?", role.ID, brand.ID).
		Delete(&models.RoleBrandPermission{}).Error)

	_, err = svc.Update(ctx, user.ID, brand.ID, BrandInput{Name: "brand-live", Discount: 50})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBrandDeleteDetachesPDFs(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewBrandService(db)
	require.NoError(t, err)

	brand := &models.Brand{Name: "brand-delete"}
	require.NoError(t, db.Create(brand).Error)
	pdf := &models.ProductPDF{Name: "brand-delete-pdf", BrandID: &brand.ID}
	require.NoError(t, db.Create(pdf).Error)
	admin := seedUser(t, db, "brand-delete@example.com", "secret123", adminRole(t, db))

	require.NoError(t, svc.Delete(context.Background(), admin.ID, brand.ID))

	var survived models.ProductPDF
	require.NoError(t, db.First(&survived, pdf.ID).Error)
	require.Nil(t, survived.BrandID)
}
