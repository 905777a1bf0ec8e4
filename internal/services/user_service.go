package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/pkg/crypto"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
)

// UserService manages dashboard accounts and their role assignments.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService using the provided database handle.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// ListUsersInput filters and paginates the user listing.
type ListUsersInput struct {
	Page    int
	PerPage int
	Query   string
}

// List returns users matching the filter together with the total count.
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalisePage(input.Page, input.PerPage)

	query := s.db.WithContext(ctx).Model(&models.User{})
	if q := strings.TrimSpace(input.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: count users: %w", err)
	}

	var users []models.User
	err := query.
		Preload("Roles").
		Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("user service: list users: %w", err)
	}
	return users, total, nil
}

// Get loads a single user with roles.
func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	ctx = ensureContext(ctx)
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// CreateUserInput describes the payload accepted by Create.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	RoleIDs  []uint
}

// Create registers a new account with the supplied roles.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(input.Name),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.ErrConflict
			}
			return fmt.Errorf("user service: create user: %w", err)
		}
		return replaceUserRoles(tx, user.ID, input.RoleIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

// UpdateUserInput describes mutable user fields. Empty strings leave the
// current value in place; a nil RoleIDs slice leaves assignments untouched.
type UpdateUserInput struct {
	Name     string
	Phone    string
	Avatar   string
	Bio      string
	Password string
	RoleIDs  []uint
}

// Update edits profile fields and, when RoleIDs is non-nil, replaces the
// user's role assignments.
func (s *UserService) Update(ctx context.Context, userID uint, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = trimmedOrCurrent(input.Name, user.Name)
	user.Phone = trimmedOrCurrent(input.Phone, user.Phone)
	user.Avatar = trimmedOrCurrent(input.Avatar, user.Avatar)
	user.Bio = trimmedOrCurrent(input.Bio, user.Bio)
	if input.Password != "" {
		hashed, err := crypto.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("user service: hash password: %w", err)
		}
		user.Password = hashed
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Select("name", "phone", "avatar", "bio", "password").Updates(user).Error; err != nil {
			return fmt.Errorf("user service: update user: %w", err)
		}
		if input.RoleIDs == nil {
			return nil
		}
		return replaceUserRoles(tx, userID, input.RoleIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Delete removes an account and its role assignments.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	ctx = ensureContext(ctx)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Assignments reference the user row, so they go first.
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("user service: clear role assignments: %w", err)
		}
		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return fmt.Errorf("user service: delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// AssignRole adds a role to a user. Assigning an already-held role is a
// no-op.
func (s *UserService) AssignRole(ctx context.Context, userID, roleID uint) error {
	ctx = ensureContext(ctx)
	if err := ensureRowExists(s.db.WithContext(ctx), &models.User{}, userID); err != nil {
		return err
	}
	if err := ensureRowExists(s.db.WithContext(ctx), &models.Role{}, roleID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where(models.UserRole{UserID: userID, RoleID: roleID}).
		FirstOrCreate(&models.UserRole{UserID: userID, RoleID: roleID}).Error
	if err != nil {
		return fmt.Errorf("user service: assign role: %w", err)
	}
	return nil
}

// RemoveRole removes a role from a user.
func (s *UserService) RemoveRole(ctx context.Context, userID, roleID uint) error {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{})
	if result.Error != nil {
		return fmt.Errorf("user service: remove role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func replaceUserRoles(tx *gorm.DB, userID uint, roleIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
		return fmt.Errorf("user service: clear role assignments: %w", err)
	}
	seen := make(map[uint]struct{}, len(roleIDs))
	for _, roleID := range roleIDs {
		if _, ok := seen[roleID]; ok {
			continue
		}
		seen[roleID] = struct{}{}
		if err := tx.Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
			return fmt.Errorf("user service: assign role %d: %w", roleID, err)
		}
	}
	return nil
}

func ensureRowExists(db *gorm.DB, model any, id uint) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("user service: existence check: %w", err)
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
