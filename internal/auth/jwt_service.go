package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the fallback validity window for issued tokens. Claims
// are frozen for the whole window; shortening it is the only revocation
// lever for guard-level permissions.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Classified verification failures. Both deny; the distinction exists only
// for user-facing messaging at the guard.
var (
	ErrTokenExpired = errors.New("jwt: token expired")
	ErrTokenInvalid = errors.New("jwt: token invalid")
)

// JWTConfig bundles the configuration required to build a JWTService.
type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// PDFGrant is one per-document entitlement embedded in token claims.
type PDFGrant struct {
	PDFID   uint `json:"pdfId"`
	CanEdit bool `json:"canEdit"`
}

// Claims is the authoritative token payload. The JSON keys are a wire
// contract shared with the dashboard client.
type Claims struct {
	UserID         uint       `json:"userId"`
	Email          string     `json:"email"`
	Roles          []string   `json:"roles"`
	Permissions    []string   `json:"permissions"`
	PDFPermissions []PDFGrant `json:"pdfPermissions"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the named role.
func (c *Claims) HasRole(name string) bool {
	for _, role := range c.Roles {
		if role == name {
			return true
		}
	}
	return false
}

// TokenInput holds the parameters used when issuing a new token.
type TokenInput struct {
	UserID         uint
	Email          string
	Roles          []string
	Permissions    []string
	PDFPermissions []PDFGrant
}

// JWTService issues and validates the signed claims tokens used across the
// dashboard.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService constructs a JWTService instance when provided with the required configuration.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// TTL reports the configured token validity window.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token embedding the supplied identity and flattened grants.
func (s *JWTService) Issue(input TokenInput) (string, error) {
	if input.UserID == 0 {
		return "", errors.New("jwt: user id is required")
	}

	now := s.now()

	claims := &Claims{
		UserID:         input.UserID,
		Email:          input.Email,
		Roles:          input.Roles,
		Permissions:    input.Permissions,
		PDFPermissions: input.PDFPermissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", input.UserID),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a signed token, returning the claims. Failures
// are classified as ErrTokenExpired or ErrTokenInvalid; callers must deny on
// either.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, ErrTokenInvalid
	}

	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}
