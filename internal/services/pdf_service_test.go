package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

func TestPDFListScopedToGrantedDocuments(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPDFService(db)
	require.NoError(t, err)

	granted := &models.ProductPDF{Name: "pdf-list-granted"}
	hidden := &models.ProductPDF{Name: "pdf-list-hidden"}
	require.NoError(t, db.Create(granted).Error)
	require.NoError(t, db.Create(hidden).Error)

	role := seedRole(t, db, "pdf-list-role")
	require.NoError(t, db.Create(&models.RolePDFPermission{RoleID: role.ID, ProductPDFID: granted.ID, CanEdit: false}).Error)
	user := seedUser(t, db, "pdf-list@example.com", "secret123", role)

	pdfs, total, err := svc.List(context.Background(), ListPDFsInput{ActorID: user.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, pdfs, 1)
	require.Equal(t, granted.ID, pdfs[0].ID)
}

func TestPDFListGrantlessUserSeesNothing(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPDFService(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.ProductPDF{Name: "pdf-grantless"}).Error)
	user := seedUser(t, db, "pdf-grantless@example.com", "secret123")

	pdfs, total, err := svc.List(context.Background(), ListPDFsInput{ActorID: user.ID})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, pdfs)
}

func TestPDFListAdminSeesEverything(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPDFService(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.ProductPDF{Name: "pdf-admin-a"}).Error)
	require.NoError(t, db.Create(&models.ProductPDF{Name: "pdf-admin-b"}).Error)
	admin := seedUser(t, db, "pdf-admin@example.com", "secret123", adminRole(t, db))

	_, total, err := svc.List(context.Background(), ListPDFsInput{ActorID: admin.ID})
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, int64(2))
}

func TestPDFUpdateRequiresLiveEditGrant(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPDFService(db)
	require.NoError(t, err)

	pdf := &models.ProductPDF{Name: "pdf-edit-target"}
	require.NoError(t, db.Create(pdf).Error)

	role := seedRole(t, db, "pdf-viewer-role")
	require.NoError(t, db.Create(&models.RolePDFPermission{RoleID: role.ID, ProductPDFID: pdf.ID, CanEdit: false}).Error)
	viewer := seedUser(t, db, "pdf-viewer@example.com", "secret123", role)

	ctx := context.Background()

	// View-only grant: the document reads fine but edits are reported as a
	// missing document, revealing nothing about its existence.
	_, err = svc.Get(ctx, viewer.ID, pdf.ID)
	require.NoError(t, err)
	_, err = svc.Update(ctx, viewer.ID, pdf.ID, PDFInput{Name: "renamed"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// Upgrading the grant takes effect immediately, without a new token.
	require.NoError(t, db.Model(&models.RolePDFPermission{}).
		Where("role_id = ? AND product_pdf_id = ?", role.ID, pdf.ID).
		Update("can_edit", true).Error)

	updated, err := svc.Update(ctx, viewer.ID, pdf.ID, PDFInput{Name: "renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)
}

func TestPDFDeleteRemovesGrantRows(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewPDFService(db)
	require.NoError(t, err)

	pdf := &models.ProductPDF{Name: "pdf-delete-target"}
	require.NoError(t, db.Create(pdf).Error)
	role := seedRole(t, db, "pdf-delete-role")
	require.NoError(t, db.Create(&models.RolePDFPermission{RoleID: role.ID, ProductPDFID: pdf.ID, CanEdit: true}).Error)
	admin := seedUser(t, db, "pdf-delete@example.com", "secret123", adminRole(t, db))

	require.NoError(t, svc.Delete(context.Background(), admin.ID, pdf.ID))

	var count int64
	require.NoError(t, db.Model(&models.RolePDFPermission{}).Where("product_pdf_id = ?", pdf.ID).Count(&count).Error)
	require.Zero(t, count)
}
