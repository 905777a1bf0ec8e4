package permissions

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
)

// PDFGrant is a role-independent view of a user's effective entitlement to
// one catalog PDF after highest-grant-wins merging.
type PDFGrant struct {
	PDFID   uint
	CanEdit bool
}

// Snapshot captures a user's effective grants at a point in time. The token
// issuer freezes one of these into the claims at login.
type Snapshot struct {
	Roles       []string
	Permissions []string
	PDFGrants   []PDFGrant
}

// IsAdmin reports whether the snapshot carries the admin role.
func (s Snapshot) IsAdmin() bool {
	for _, role := range s.Roles {
		if role == models.AdminRoleName {
			return true
		}
	}
	return false
}

// Checker answers authorization questions from live database state. It never
// consults token claims; endpoints that need revocation to take effect
// immediately go through here.
type Checker struct {
	db *gorm.DB
}

// NewChecker constructs a permission checker backed by the provided database.
func NewChecker(db *gorm.DB) (*Checker, error) {
	if db == nil {
		return nil, errors.New("permission checker: db is required")
	}
	return &Checker{db: db}, nil
}

// SnapshotFor flattens the user's roles into an effective grant set:
// permission codes are the deduplicated union across roles, and PDF grants
// merge per document with canEdit=true winning any conflict.
func (c *Checker) SnapshotFor(ctx context.Context, userID uint) (*Snapshot, error) {
	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SnapshotFromRoles(user.Roles), nil
}

// SnapshotFromRoles builds the effective grant set from preloaded roles.
func SnapshotFromRoles(roles []models.Role) *Snapshot {
	snapshot := &Snapshot{
		Roles:       make([]string, 0, len(roles)),
		Permissions: make([]string, 0),
		PDFGrants:   make([]PDFGrant, 0),
	}

	codes := make(map[string]struct{})
	pdfEdit := make(map[uint]bool)
	pdfOrder := make([]uint, 0)

	for _, role := range roles {
		snapshot.Roles = append(snapshot.Roles, role.Name)

		for _, perm := range role.Permissions {
			if _, seen := codes[perm.Code]; !seen {
				codes[perm.Code] = struct{}{}
				snapshot.Permissions = append(snapshot.Permissions, perm.Code)
			}
		}

		for _, grant := range role.PDFGrants {
			if _, seen := pdfEdit[grant.ProductPDFID]; !seen {
				pdfOrder = append(pdfOrder, grant.ProductPDFID)
			}
			// highest grant wins: a single edit-capable role overrides any
			// number of view-only grants
			pdfEdit[grant.ProductPDFID] = pdfEdit[grant.ProductPDFID] || grant.CanEdit
		}
	}

	sort.Strings(snapshot.Permissions)
	for _, pdfID := range pdfOrder {
		snapshot.PDFGrants = append(snapshot.PDFGrants, PDFGrant{PDFID: pdfID, CanEdit: pdfEdit[pdfID]})
	}

	return snapshot
}

// IsAdmin reports whether the user currently holds the admin role.
func (c *Checker) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, models.AdminRoleName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("permission checker: admin lookup: %w", err)
	}
	return count > 0, nil
}

// CanEditPDF reports whether any of the user's current roles carries an edit
// grant for the PDF. Admins always pass.
func (c *Checker) CanEditPDF(ctx context.Context, userID, pdfID uint) (bool, error) {
	admin, err := c.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	var count int64
	err = c.db.WithContext(ctx).
		Model(&models.RolePDFPermission{}).
		Joins("JOIN user_roles ON user_roles.role_id = role_pdf_permissions.role_id").
		Where("user_roles.user_id = ? AND role_pdf_permissions.product_pdf_id = ? AND role_pdf_permissions.can_edit = ?", userID, pdfID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("permission checker: pdf grant lookup: %w", err)
	}
	return count > 0, nil
}

// CanEditBrand reports whether any of the user's current roles carries a
// grant row for the brand. Admins always pass.
func (c *Checker) CanEditBrand(ctx context.Context, userID, brandID uint) (bool, error) {
	admin, err := c.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	var count int64
	err = c.db.WithContext(ctx).
		Model(&models.RoleBrandPermission{}).
		Joins("JOIN user_roles ON user_roles.role_id = role_brand_permissions.role_id").
		Where("user_roles.user_id = ? AND role_brand_permissions.brand_id = ?", userID, brandID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("permission checker: brand grant lookup: %w", err)
	}
	return count > 0, nil
}

// GrantedPDFIDs returns the PDF ids the user holds any grant for, edit or
// view. Listings for non-admins are restricted to this set.
func (c *Checker) GrantedPDFIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := c.db.WithContext(ctx).
		Model(&models.RolePDFPermission{}).
		Distinct("role_pdf_permissions.product_pdf_id").
		Joins("JOIN user_roles ON user_roles.role_id = role_pdf_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("role_pdf_permissions.product_pdf_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("permission checker: granted pdfs: %w", err)
	}
	return ids, nil
}

func (c *Checker) loadUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := c.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Roles.PDFGrants").
		First(&user, userID).Error
	if err != nil {
		return nil, fmt.Errorf("permission checker: load user: %w", err)
	}
	return &user, nil
}
