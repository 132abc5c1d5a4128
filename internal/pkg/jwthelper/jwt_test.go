package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	now := time.Now()

	raw, claims, err := GenerateToken(testKey, 42, TokenTypeAccess, 10*time.Minute, now)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(testKey, raw, TokenTypeAccess)
	require.NoError(t, err)

	assert.Equal(t, uint(42), parsed.UserID)
	assert.Equal(t, TokenTypeAccess, parsed.TokenType)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, now.Add(10*time.Minute), parsed.ExpiresAt.Time, time.Second)
}

func TestParseToken_RejectsWrongType(t *testing.T) {
	raw, _, err := GenerateToken(testKey, 1, TokenTypeRefresh, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseToken(testKey, raw, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	raw, _, err := GenerateToken(testKey, 1, TokenTypeAccess, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(testKey, raw, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsForeignSignature(t *testing.T) {
	raw, _, err := GenerateToken([]byte("other-key"), 1, TokenTypeAccess, time.Minute, time.Now())
	require.NoError(t, err)

	_, err = ParseToken(testKey, raw, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateToken_RequiresKey(t *testing.T) {
	_, _, err := GenerateToken(nil, 1, TokenTypeAccess, time.Minute, time.Now())
	assert.Error(t, err)
}
