// internal/pkg/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims carried by the storefront API's bearer tokens
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ErrTokenExpired is returned when a stored token is past its expiry
var ErrTokenExpired = fmt.Errorf("token expired")

// ParseUnverified decodes the claims of a bearer token without verifying
// its signature. Tokens are issued and verified by the remote storefront
// API; this client holds no signing secret and only consumes them, so
// expiry is the one check it can make locally before attaching the token
// to a request.
func ParseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
