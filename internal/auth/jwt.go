// Package auth issues and verifies the HS256 access tokens the API hands
// out at sign-in.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// Claims carries the authenticated user's identity and role inside a token.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   schema.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken signs a token for the user, valid for ttl.
func NewAccessToken(secret, issuer string, ttl time.Duration, user schema.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a token's signature and expiry and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
