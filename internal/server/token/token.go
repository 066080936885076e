// Package token issues and verifies the signed bearer tokens that gate the
// protected routes. Tokens are stateless HS256 JWTs: validity is a function
// of the token string, the shared secret and the clock, nothing server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Callers that do not care about the distinction can
// treat both as "invalid token".
var (
	ErrMalformed = errors.New("token malformed or signature invalid")
	ErrExpired   = errors.New("token expired")
)

// Claims are the claims carried by an issued token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a single process-wide secret.
// The same instance must be used for issuance and verification so the
// secrets cannot diverge.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. ttl is the absolute lifetime of
// every issued token.
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue produces a signed token asserting userID, expiring ttl from now.
// The jti claim makes every issued token a distinct string.
func (s *Service) Issue(userID int64) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the asserted user id.
// Returns ErrExpired for structurally valid but stale tokens and
// ErrMalformed for everything else.
func (s *Service) Verify(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrMalformed
	}

	return claims.UserID, nil
}
