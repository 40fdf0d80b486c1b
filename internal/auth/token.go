// Package auth issues and verifies the bearer credentials that prove an
// identity claim without a server-side session lookup.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/YaelStO/AlasLatinasNeftify/internal/errors"
)

// Claims are the JWT claims embedded in every credential.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the verified claim pair a credential decodes to. Verification
// does not re-check that the user still exists; callers needing current data
// re-fetch by id.
type Identity struct {
	UserID string
	Email  string
}

// Tokens signs and verifies HS256 credentials with a fixed validity window.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token signer. ttl defaults to 7 days when zero.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a credential bound to the user id and email.
func (t *Tokens) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "alas-latinas",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the credential's signature and expiry and returns the
// embedded identity. Every failure maps to Unauthorized.
func (t *Tokens) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Identity{}, apperrors.NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, apperrors.NewUnauthorizedError("invalid token")
	}
	if claims.UserID == "" {
		return Identity{}, apperrors.NewUnauthorizedError("invalid token")
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
