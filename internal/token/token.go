// Package token signs and verifies the bearer credentials issued on login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/profilehub/user-service/internal/models"
)

// Verification outcomes. Expired and otherwise-invalid tokens are reported
// separately so the authentication middleware can respond with distinct
// messages.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims is the closed payload of an issued token. Unknown claims present in
// a presented token are ignored on verify.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens under a process-wide secret.
// The secret is set once at startup and read-only thereafter.
type Codec struct {
	secret []byte
	expiry time.Duration
}

// NewCodec creates a new token codec
func NewCodec(secret string, expiry time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Sign issues a token asserting the given email and role
func (c *Codec) Sign(email string, role models.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token's signature and expiry and returns its claims.
// It returns ErrExpired for expired tokens and ErrInvalid for anything else
// that fails verification (malformed token, bad signature, wrong algorithm).
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	if !parsed.Valid || claims.Email == "" {
		return nil, ErrInvalid
	}

	return claims, nil
}
