package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/auth"
	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/internal/permissions"
	"github.com/pricedesk/pricedesk/pkg/crypto"
	apperrors "github.com/pricedesk/pricedesk/pkg/errors"
	"github.com/pricedesk/pricedesk/pkg/metrics"
)

// AuthService handles login, registration and the claim snapshot taken at
// token issue time.
type AuthService struct {
	db      *gorm.DB
	jwt     *auth.JWTService
	dataKey []byte
}

// NewAuthService constructs an AuthService. dataKey is the AES key shared
// with the dashboard frontend for encrypting credential payloads in transit.
func NewAuthService(db *gorm.DB, jwtService *auth.JWTService, dataKey []byte) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	switch len(dataKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("auth service: data key must be 16, 24 or 32 bytes")
	}
	return &AuthService{db: db, jwt: jwtService, dataKey: dataKey}, nil
}

type credentialPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginResult carries the signed token together with the user it was issued
// for and the snapshot frozen into it.
type LoginResult struct {
	Token    string
	User     *models.User
	Snapshot *permissions.Snapshot
}

func (s *AuthService) decryptPayload(payload string) (*credentialPayload, error) {
	plaintext, err := crypto.Decrypt(payload, s.dataKey)
	if err != nil {
		return nil, apperrors.NewBadRequest("credential payload could not be decrypted")
	}
	var creds credentialPayload
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, apperrors.NewBadRequest("credential payload is malformed")
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Email == "" || creds.Password == "" {
		return nil, apperrors.NewBadRequest("email and password are required")
	}
	return &creds, nil
}

// Login verifies the encrypted credentials, freezes the caller's effective
// grants into a claims snapshot and issues a signed token. Unknown accounts
// and wrong passwords fail with distinct error codes.
func (s *AuthService) Login(ctx context.Context, payload string) (*LoginResult, error) {
	ctx = ensureContext(ctx)

	creds, err := s.decryptPayload(payload)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("malformed").Inc()
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Roles.PDFGrants").
		Where("email = ?", creds.Email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthAttempts.WithLabelValues("unknown_user").Inc()
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("auth service: lookup user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, creds.Password) {
		metrics.AuthAttempts.WithLabelValues("wrong_password").Inc()
		return nil, apperrors.ErrWrongPassword
	}

	snapshot := permissions.SnapshotFromRoles(user.Roles)
	grants := make([]auth.PDFGrant, 0, len(snapshot.PDFGrants))
	for _, grant := range snapshot.PDFGrants {
		grants = append(grants, auth.PDFGrant{PDFID: grant.PDFID, CanEdit: grant.CanEdit})
	}

	token, err := s.jwt.Issue(auth.TokenInput{
		UserID:         user.ID,
		Email:          user.Email,
		Roles:          snapshot.Roles,
		Permissions:    snapshot.Permissions,
		PDFPermissions: grants,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, User: &user, Snapshot: snapshot}, nil
}

// Register creates an account from an encrypted credential payload and
// attaches the default role. Duplicate emails are rejected with a conflict.
func (s *AuthService) Register(ctx context.Context, payload string) (*models.User, error) {
	ctx = ensureContext(ctx)

	creds, err := s.decryptPayload(payload)
	if err != nil {
		return nil, err
	}

	hashed, err := crypto.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Email:    creds.Email,
		Password: hashed,
		Name:     strings.TrimSpace(creds.Name),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.New("AUTH_EMAIL_TAKEN", "Email is already registered", http.StatusConflict)
			}
			return fmt.Errorf("auth service: create user: %w", err)
		}

		var role models.Role
		if err := tx.Where("name = ?", models.DefaultRoleName).First(&role).Error; err != nil {
			return fmt.Errorf("auth service: load default role: %w", err)
		}
		if err := tx.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			return fmt.Errorf("auth service: assign default role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadUser(ctx, user.ID)
}

// CurrentUser loads the account behind verified claims with its roles.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.loadUser(ensureContext(ctx), userID)
}

func (s *AuthService) loadUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Roles").
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}
	return &user, nil
}
