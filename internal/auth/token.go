// Package auth resolves the caller's identity from a bearer token and makes
// it available to handlers as an explicit value rather than ambient state.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pasarkita/pasar-backend/internal/account"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is who is making the request.
type Identity struct {
	UserID string
	Role   account.Role
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret string, ttl time.Duration, id Identity) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (Identity, error) {
	var c claims
	t, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !t.Valid || c.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.Subject, Role: account.Role(c.Role)}, nil
}
