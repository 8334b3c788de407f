package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionTokenRoundtrip(t *testing.T) {
	token, err := IssueSessionToken(7, "DOCTOR", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseSessionToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "DOCTOR", claims.Role)
}

func TestParseSessionTokenExpired(t *testing.T) {
	token, err := IssueSessionToken(7, "DOCTOR", -time.Minute)
	assert.NoError(t, err)

	_, err = ParseSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestParseSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, err := IssueSessionToken(7, "DOCTOR", time.Hour)
	assert.NoError(t, err)

	SetJWTSecret("a-different-secret")
	defer SetJWTSecret("util-test-secret")

	_, err = ParseSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestHashPasswordDeterministic(t *testing.T) {
	first := HashPassword("secret123")
	second := HashPassword("secret123")
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, HashPassword("secret124"))
	assert.Len(t, first, 64) // hex-encoded SHA-256

	// Changing the shared secret changes every hash.
	SetJWTSecret("another-secret")
	defer SetJWTSecret("util-test-secret")
	assert.NotEqual(t, first, HashPassword("secret123"))
}
