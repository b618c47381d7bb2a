package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signingKey = []byte("test-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(signingKey, 42, "courts-ios/1.0")
	require.NoError(t, err)

	claims, err := ParseToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "courts-ios/1.0", claims.UserAgent)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseTokenWrongKey(t *testing.T) {
	token, err := GenerateToken(signingKey, 42, "")
	require.NoError(t, err)

	_, err = ParseToken([]byte("another-key"), token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(signingKey, "not.a.token")
	assert.Error(t, err)
}
