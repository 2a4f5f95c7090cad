package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateToken(42, "staff")
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager("one", time.Hour)
	verifier := NewTokenManager("two", time.Hour)

	token, err := issuer.GenerateToken(1, "student")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.ttl = -time.Minute

	token, err := tm.GenerateToken(1, "student")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(3, "staff")
	require.NoError(t, err)
	claims, err := tm.ParseToken(token)
	require.NoError(t, err)

	tm.Revoke(token, claims)

	assert.True(t, tm.IsRevoked(token))
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrRevokedToken)
}
