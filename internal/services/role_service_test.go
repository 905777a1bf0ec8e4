package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

func TestUpsertPDFGrantOverwritesInsteadOfAccumulating(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "grant-upsert")
	pdf := &models.ProductPDF{Name: "upsert-target"}
	require.NoError(t, db.Create(pdf).Error)

	ctx := context.Background()
	require.NoError(t, svc.UpsertPDFGrant(ctx, role.ID, pdf.ID, false))
	require.NoError(t, svc.UpsertPDFGrant(ctx, role.ID, pdf.ID, true))

	var grants []models.RolePDFPermission
	require.NoError(t, db.Where("role_id = ?", role.ID).Find(&grants).Error)
	require.Len(t, grants, 1)
	require.True(t, grants[0].CanEdit)

	// Downgrade also overwrites in place.
	require.NoError(t, svc.UpsertPDFGrant(ctx, role.ID, pdf.ID, false))
	require.NoError(t, db.Where("role_id = ?", role.ID).Find(&grants).Error)
	require.Len(t, grants, 1)
	require.False(t, grants[0].CanEdit)
}

func TestUpsertPDFGrantUnknownTargets(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "grant-missing")

	require.ErrorIs(t, svc.UpsertPDFGrant(context.Background(), role.ID, 99999, true), apperrors.ErrNotFound)
	require.ErrorIs(t, svc.UpsertPDFGrant(context.Background(), 99999, 1, true), apperrors.ErrNotFound)
}

func TestSetPermissionsReplacesExistingSet(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	brands := models.Permission{Code: "/brands-perm-test"}
	pdf := models.Permission{Code: "/pdf-perm-test"}
	require.NoError(t, db.Create(&brands).Error)
	require.NoError(t, db.Create(&pdf).Error)

	role := seedRole(t, db, "perm-replace")
	ctx := context.Background()

	updated, err := svc.SetPermissions(ctx, role.ID, []uint{brands.ID})
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	require.Equal(t, "/brands-perm-test", updated.Permissions[0].Code)

	updated, err = svc.SetPermissions(ctx, role.ID, []uint{pdf.ID})
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	require.Equal(t, "/pdf-perm-test", updated.Permissions[0].Code)

	updated, err = svc.SetPermissions(ctx, role.ID, nil)
	require.NoError(t, err)
	require.Empty(t, updated.Permissions)
}

func TestSetPermissionsRejectsUnknownIDs(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "perm-unknown")

	_, err = svc.SetPermissions(context.Background(), role.ID, []uint{99999})
	appErr := apperrors.FromError(err)
	require.Equal(t, 400, appErr.StatusCode)
}

func TestDeleteProtectsBuiltInRoles(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	admin := adminRole(t, db)
	require.ErrorIs(t, svc.Delete(context.Background(), admin.ID), ErrRoleProtected)
}

func TestDeleteRoleClearsAssignmentsAndGrants(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	role := seedRole(t, db, "delete-cascade")
	pdf := &models.ProductPDF{Name: "delete-cascade-pdf"}
	brand := &models.Brand{Name: "delete-cascade-brand"}
	require.NoError(t, db.Create(pdf).Error)
	require.NoError(t, db.Create(brand).Error)

	user := seedUser(t, db, "delete-cascade@example.com", "secret123", role)

	ctx := context.Background()
	require.NoError(t, svc.UpsertPDFGrant(ctx, role.ID, pdf.ID, true))
	require.NoError(t, svc.UpsertBrandGrant(ctx, role.ID, brand.ID))

	require.NoError(t, svc.Delete(ctx, role.ID))

	var count int64
	require.NoError(t, db.Model(&models.UserRole{}).Where("role_id = ?", role.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.RolePDFPermission{}).Where("role_id = ?", role.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.RoleBrandPermission{}).Where("role_id = ?", role.ID).Count(&count).Error)
	require.Zero(t, count)

	// The user survives losing the role.
	var remaining models.User
	require.NoError(t, db.First(&remaining, user.ID).Error)
}
