package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

// ErrRoleProtected prevents destructive operations on the built-in roles.
var ErrRoleProtected = apperrors.New("ROLE_PROTECTED", "Built-in roles cannot be deleted", http.StatusBadRequest)

// RoleService manages roles, their route permissions and their per-resource
// edit grants.
type RoleService struct {
	db *gorm.DB
}

// NewRoleService constructs a RoleService using the provided database handle.
func NewRoleService(db *gorm.DB) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{db: db}, nil
}

// List returns all roles with their permissions, paginated.
func (s *RoleService) List(ctx context.Context, page, perPage int) ([]models.Role, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage = normalisePage(page, perPage)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Role{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("role service: count roles: %w", err)
	}

	var roles []models.Role
	err := s.db.WithContext(ctx).
		Preload("Permissions").
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&roles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("role service: list roles: %w", err)
	}
	return roles, total, nil
}

// Get loads a role with its permissions and resource grants.
func (s *RoleService) Get(ctx context.Context, roleID uint) (*models.Role, error) {
	ctx = ensureContext(ctx)
	var role models.Role
	err := s.db.WithContext(ctx).
		Preload("Permissions").
		Preload("PDFGrants").
		Preload("BrandGrants").
		First(&role, roleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}
	return &role, nil
}

// CreateRoleInput describes the payload accepted by Create.
type CreateRoleInput struct {
	Name        string
	Description string
}

// Create registers a new role.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	role := &models.Role{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("role name already exists")
		}
		return nil, fmt.Errorf("role service: create role: %w", err)
	}
	return role, nil
}

// Update edits a role's name and description.
func (s *RoleService) Update(ctx context.Context, roleID uint, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, roleID)
	if err != nil {
		return nil, err
	}
	role.Name = trimmedOrCurrent(input.Name, role.Name)
	role.Description = strings.TrimSpace(input.Description)

	err = s.db.WithContext(ctx).Model(role).Select("name", "description").Updates(role).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("role name already exists")
		}
		return nil, fmt.Errorf("role service: update role: %w", err)
	}
	return role, nil
}

// Delete removes a role along with its assignments and grants. The built-in
// admin and user roles are protected.
func (s *RoleService) Delete(ctx context.Context, roleID uint) error {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, roleID)
	if err != nil {
		return err
	}
	if role.Name == models.AdminRoleName || role.Name == models.DefaultRoleName {
		return ErrRoleProtected
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("role service: clear user assignments: %w", err)
		}
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePDFPermission{}).Error; err != nil {
			return fmt.Errorf("role service: clear pdf grants: %w", err)
		}
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleBrandPermission{}).Error; err != nil {
			return fmt.Errorf("role service: clear brand grants: %w", err)
		}
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("role service: clear permissions: %w", err)
		}
		if err := tx.Delete(role).Error; err != nil {
			return fmt.Errorf("role service: delete role: %w", err)
		}
		return nil
	})
}

// SetPermissions replaces a role's route permission set with the supplied
// permission IDs.
func (s *RoleService) SetPermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, roleID)
	if err != nil {
		return nil, err
	}

	var perms []models.Permission
	if len(permissionIDs) > 0 {
		if err := s.db.WithContext(ctx).Find(&perms, permissionIDs).Error; err != nil {
			return nil, fmt.Errorf("role service: load permissions: %w", err)
		}
		if len(perms) != len(dedupeIDs(permissionIDs)) {
			return nil, apperrors.NewBadRequest("one or more permission ids do not exist")
		}
	}

	err = s.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
	if err != nil {
		return nil, fmt.Errorf("role service: replace permissions: %w", err)
	}
	return s.Get(ctx, roleID)
}

// ListUsers returns the users currently assigned a role.
func (s *RoleService) ListUsers(ctx context.Context, roleID uint) ([]models.User, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, roleID); err != nil {
		return nil, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", roleID).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("role service: list role users: %w", err)
	}
	return users, nil
}

// ListPDFGrants returns a role's PDF edit grants with the PDFs preloaded.
func (s *RoleService) ListPDFGrants(ctx context.Context, roleID uint) ([]models.RolePDFPermission, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, roleID); err != nil {
		return nil, err
	}

	var grants []models.RolePDFPermission
	err := s.db.WithContext(ctx).
		Preload("ProductPDF").
		Where("role_id = ?", roleID).
		Order("product_pdf_id ASC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("role service: list pdf grants: %w", err)
	}
	return grants, nil
}

// UpsertPDFGrant records a role's entitlement to one PDF. At most one grant
// row exists per role/PDF pair; re-granting overwrites the edit flag rather
// than accumulating rows.
func (s *RoleService) UpsertPDFGrant(ctx context.Context, roleID, pdfID uint, canEdit bool) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, roleID); err != nil {
		return err
	}
	if err := ensureRowExists(s.db.WithContext(ctx), &models.ProductPDF{}, pdfID); err != nil {
		return err
	}

	grant := models.RolePDFPermission{RoleID: roleID, ProductPDFID: pdfID, CanEdit: canEdit}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "product_pdf_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_edit", "updated_at"}),
	}).Create(&grant).Error
	if err != nil {
		return fmt.Errorf("role service: upsert pdf grant: %w", err)
	}
	return nil
}

// RemovePDFGrant drops a role's grant for one PDF.
func (s *RoleService) RemovePDFGrant(ctx context.Context, roleID, pdfID uint) error {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("role_id = ? AND product_pdf_id = ?", roleID, pdfID).
		Delete(&models.RolePDFPermission{})
	if result.Error != nil {
		return fmt.Errorf("role service: remove pdf grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListBrandGrants returns a role's brand edit grants with the brands
// preloaded.
func (s *RoleService) ListBrandGrants(ctx context.Context, roleID uint) ([]models.RoleBrandPermission, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, roleID); err != nil {
		return nil, err
	}

	var grants []models.RoleBrandPermission
	err := s.db.WithContext(ctx).
		Preload("Brand").
		Where("role_id = ?", roleID).
		Order("brand_id ASC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("role service: list brand grants: %w", err)
	}
	return grants, nil
}

// UpsertBrandGrant records a role's edit entitlement to one brand. Membership
// is the grant, so re-granting is a no-op.
func (s *RoleService) UpsertBrandGrant(ctx context.Context, roleID, brandID uint) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, roleID); err != nil {
		return err
	}
	if err := ensureRowExists(s.db.WithContext(ctx), &models.Brand{}, brandID); err != nil {
		return err
	}

	grant := models.RoleBrandPermission{RoleID: roleID, BrandID: brandID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "brand_id"}},
		DoNothing: true,
	}).Create(&grant).Error
	if err != nil {
		return fmt.Errorf("role service: upsert brand grant: %w", err)
	}
	return nil
}

// RemoveBrandGrant drops a role's grant for one brand.
func (s *RoleService) RemoveBrandGrant(ctx context.Context, roleID, brandID uint) error {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("role_id = ? AND brand_id = ?", roleID, brandID).
		Delete(&models.RoleBrandPermission{})
	if result.Error != nil {
		return fmt.Errorf("role service: remove brand grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
