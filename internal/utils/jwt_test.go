package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignAndParseJWT(t *testing.T) {
	token, err := SignJWT("secret", "user-123", "freelancer", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, "freelancer", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := SignJWT("secret", "user-123", "client", 60)
	require.NoError(t, err)

	_, err = ParseJWT("another-secret", token)
	require.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	token, err := SignJWT("secret", "user-123", "client", -5)
	require.NoError(t, err)

	_, err = ParseJWT("secret", token)
	require.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("secret", "definitely.not.a-jwt")
	require.Error(t, err)
}
