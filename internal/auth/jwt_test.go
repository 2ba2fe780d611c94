package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	service := NewTokenService("test-secret")

	token, err := service.GenerateAccessToken(42, "worker")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "worker", claims.Username)
	// access tokens carry no jti; only refresh tokens are tracked
	assert.Empty(t, claims.ID)
}

func TestRefreshTokenCarriesTrackedID(t *testing.T) {
	service := NewTokenService("test-secret")

	tokenID, token, err := service.GenerateRefreshToken(42, "worker")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, tokenID, claims.ID)
	assert.Equal(t, uint64(42), claims.UserID)
}

func TestRefreshTokenIDsAreUnique(t *testing.T) {
	service := NewTokenService("test-secret")

	first, _, err := service.GenerateRefreshToken(42, "worker")
	require.NoError(t, err)
	second, _, err := service.GenerateRefreshToken(42, "worker")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("test-secret").GenerateAccessToken(42, "worker")
	require.NoError(t, err)

	_, err = NewTokenService("other-secret").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	_, err := NewTokenService("test-secret").ValidateToken("not-a-token")
	assert.Error(t, err)
}
