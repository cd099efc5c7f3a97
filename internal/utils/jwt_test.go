package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTripUsesInstalledKey(t *testing.T) {
	SetJWTSecret("first-key")

	token, err := GenerateJWT("u1", "u1@example.com", "user")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestJWTRejectsTokenSignedWithDifferentKey(t *testing.T) {
	SetJWTSecret("first-key")
	token, err := GenerateJWT("u1", "u1@example.com", "user")
	require.NoError(t, err)

	SetJWTSecret("rotated-key")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("first-key")
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}
