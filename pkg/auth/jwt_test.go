package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", 1, 24)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "DOCTOR")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "DOCTOR", claims.Role)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", 1, 24)

	access, err := svc.GenerateAccessToken(uuid.New(), "PATIENT")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(uuid.New(), "PATIENT")
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", 1, 24)

	token, err := svc.GenerateAccessToken(uuid.New(), "PATIENT")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token + "x")
	assert.Error(t, err)

	other := NewJWTService("different-secret", "refresh-secret", 1, 24)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}
