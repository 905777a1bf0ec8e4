package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// UnverifiedClaims mirrors the token payload without carrying any authority.
// It is a distinct type from Claims so a decode-only result can never be
// handed to code that expects a verified token. Use it for UI visibility
// decisions only.
type UnverifiedClaims struct {
	UserID         uint       `json:"userId"`
	Email          string     `json:"email"`
	Roles          []string   `json:"roles"`
	Permissions    []string   `json:"permissions"`
	PDFPermissions []PDFGrant `json:"pdfPermissions"`
	jwt.RegisteredClaims
}

// DecodeUnverified parses a token payload without checking the signature or
// expiry. It is pure and side-effect free.
func DecodeUnverified(tokenString string) (*UnverifiedClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("decode: empty token")
	}

	var claims UnverifiedClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &claims, nil
}
