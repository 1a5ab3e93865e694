package jwt

import (
	"testing"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := newJWTService("secret", time.Hour)

	token, err := svc.GenerateTokenUser("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, domain.RoleAdmin, role)

	expiry, err := svc.GetExpiryByToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	utils.SetConfig("JWT_SECRET", "  ")
	_, err := NewJWTService()
	assert.ErrorIs(t, err, domain.ErrMissingSecret)

	utils.SetConfig("JWT_SECRET", "secret")
	svc, err := NewJWTService()
	require.NoError(t, err)
	_, err = svc.GenerateTokenUser("user-1", domain.RoleUser)
	assert.NoError(t, err)
}

func TestTokensAreUnique(t *testing.T) {
	svc := newJWTService("secret", time.Hour)

	a, err := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)
	b, err := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExpiredToken(t *testing.T) {
	svc := newJWTService("secret", -time.Minute)

	token, err := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, _, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	token, err := newJWTService("one", time.Hour).GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, _, err = newJWTService("two", time.Hour).GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = newJWTService("one", time.Hour).GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
