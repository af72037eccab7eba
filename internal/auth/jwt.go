package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "dws-api"

// ErrNoSubject is returned for a validly signed token that names no user.
var ErrNoSubject = errors.New("token has no subject")

// Claims is the payload of a bearer token.
//
// Tokens minted by the identity provider carry the user's object id in
// "oid"; locally issued tokens use the standard "sub". Either one is the
// opaque user id the rest of the service works with.
type Claims struct {
	OID   string   `json:"oid,omitempty"`
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns oid when present, otherwise sub.
func (c *Claims) UserID() string {
	if c.OID != "" {
		return c.OID
	}
	return c.Subject
}

// HasRole reports whether role is among the token's roles.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GenerateToken signs an HS256 token for userID. It backs local
// development and tests; production tokens come from the identity provider.
func GenerateToken(userID string, roles []string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken verifies signature and expiry and returns the claims.
// Only HMAC-signed tokens are accepted.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID() == "" {
		return nil, ErrNoSubject
	}

	return claims, nil
}
