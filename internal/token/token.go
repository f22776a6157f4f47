// Package token issues and verifies the signed, time-limited bearer tokens
// that carry the authenticated user's identity between requests. Nothing is
// persisted; the token itself is the whole credential.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned by Verify for any token that cannot be
// trusted: bad signature, malformed payload, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload: the registered claims plus the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// JWT signs and verifies HS256 tokens with a shared secret.
type JWT struct {
	signingSecretKey []byte
	tokenTTL         time.Duration
}

// New returns a JWT signer/verifier. tokenTTL bounds the lifetime of every
// issued token (expiry = issued-at + tokenTTL).
func New(signingSecretKey []byte, tokenTTL time.Duration) *JWT {
	return &JWT{
		signingSecretKey: signingSecretKey,
		tokenTTL:         tokenTTL,
	}
}

// Issue returns a signed token embedding userID, valid for the configured TTL.
func (j *JWT) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.signingSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// embedded user id. Every verification failure collapses into
// ErrInvalidToken so callers cannot leak which check rejected the token.
func (j *JWT) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return j.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
