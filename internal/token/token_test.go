package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := New([]byte("test-secret"), time.Hour)

	tokenString, err := tokens.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	userID, err := tokens.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestIssueSetsExpiryFromTTL(t *testing.T) {
	ttl := time.Hour
	tokens := New([]byte("test-secret"), ttl)

	tokenString, err := tokens.Issue("user-123")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, ttl, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerifyExpired(t *testing.T) {
	tokens := New([]byte("test-secret"), -time.Minute)

	tokenString, err := tokens.Issue("user-123")
	require.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := New([]byte("right-secret"), time.Hour)
	verifier := New([]byte("wrong-secret"), time.Hour)

	tokenString, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	tokens := New([]byte("test-secret"), time.Hour)

	for _, tokenString := range []string{"", "not.a.jwt", "garbage"} {
		_, err := tokens.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}

func TestVerifyRejectsMissingUserID(t *testing.T) {
	secret := []byte("test-secret")
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := raw.SignedString(secret)
	require.NoError(t, err)

	_, err = New(secret, time.Hour).Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
