package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

// PermissionService manages the route permission codes roles are built from.
type PermissionService struct {
	db *gorm.DB
}

// NewPermissionService constructs a PermissionService using the provided
// database handle.
func NewPermissionService(db *gorm.DB) (*PermissionService, error) {
	if db == nil {
		return nil, errors.New("permission service: db is required")
	}
	return &PermissionService{db: db}, nil
}

// List returns all permission codes ordered by code.
func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	ctx = ensureContext(ctx)
	var perms []models.Permission
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("permission service: list permissions: %w", err)
	}
	return perms, nil
}

// CreatePermissionInput describes the payload accepted by Create.
type CreatePermissionInput struct {
	Code        string
	Description string
}

// Create registers a route permission code. Codes must start with "/".
func (s *PermissionService) Create(ctx context.Context, input CreatePermissionInput) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	code := strings.TrimSpace(input.Code)
	if code == "" || !strings.HasPrefix(code, "/") {
		return nil, apperrors.NewBadRequest("permission code must start with /")
	}

	perm := &models.Permission{Code: code, Description: strings.TrimSpace(input.Description)}
	if err := s.db.WithContext(ctx).Create(perm).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("permission code already exists")
		}
		return nil, fmt.Errorf("permission service: create permission: %w", err)
	}
	return perm, nil
}

// Update edits a permission's description. Codes are immutable; changing a
// code would silently redefine every role that references it.
func (s *PermissionService) Update(ctx context.Context, permissionID uint, description string) (*models.Permission, error) {
	ctx = ensureContext(ctx)

	var perm models.Permission
	if err := s.db.WithContext(ctx).First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("permission service: load permission: %w", err)
	}

	perm.Description = strings.TrimSpace(description)
	if err := s.db.WithContext(ctx).Model(&perm).Update("description", perm.Description).Error; err != nil {
		return nil, fmt.Errorf("permission service: update permission: %w", err)
	}
	return &perm, nil
}

// Delete removes a permission code and detaches it from every role.
func (s *PermissionService) Delete(ctx context.Context, permissionID uint) error {
	ctx = ensureContext(ctx)

	var perm models.Permission
	if err := s.db.WithContext(ctx).First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("permission service: load permission: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&perm).Association("Roles").Clear(); err != nil {
			return fmt.Errorf("permission service: detach roles: %w", err)
		}
		if err := tx.Delete(&perm).Error; err != nil {
			return fmt.Errorf("permission service: delete permission: %w", err)
		}
		return nil
	})
}
