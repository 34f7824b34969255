package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/scriptstudio/internal/config"
	"github.com/daniel/scriptstudio/internal/userdir"
)

func testJWTService(ttl time.Duration) *JWTService {
	return NewJWTService(&config.SessionConfig{
		Secret: "test-secret-for-jwt",
		TTL:    ttl,
	})
}

func TestJWT_GenerateAndValidate(t *testing.T) {
	svc := testJWTService(time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, userdir.RoleEditor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, userdir.RoleEditor, claims.GetRole())
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, err := testJWTService(time.Hour).GenerateToken(uuid.New(), userdir.RoleViewer)
	require.NoError(t, err)

	other := NewJWTService(&config.SessionConfig{Secret: "a-different-secret", TTL: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_EmptyAndMalformedTokens(t *testing.T) {
	svc := testJWTService(time.Hour)

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
