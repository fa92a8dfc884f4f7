package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventure-backend/models"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	user := &models.User{ID: 42}

	t.Run("access token", func(t *testing.T) {
		token, err := GenerateJWT(user, GrantTypeAccess)
		require.NoError(t, err)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, GrantTypeAccess, claims.Type)
	})

	t.Run("refresh token outlives access token", func(t *testing.T) {
		access, err := GenerateJWT(user, GrantTypeAccess)
		require.NoError(t, err)
		refresh, err := GenerateJWT(user, GrantTypeRefresh)
		require.NoError(t, err)

		ac, err := ParseJWT(access)
		require.NoError(t, err)
		rc, err := ParseJWT(refresh)
		require.NoError(t, err)
		assert.True(t, rc.ExpiresAt.After(ac.ExpiresAt.Time))
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := GenerateJWT(user, GrantTypeAccess)
		require.NoError(t, err)

		_, err = ParseJWT(token + "x")
		assert.Error(t, err)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := GenerateJWT(user, GrantTypeAccess)
		require.NoError(t, err)

		t.Setenv("JWT_SECRET_KEY", "other-secret")
		_, err = ParseJWT(token)
		assert.Error(t, err)
	})
}

func TestPhoneNumberPattern(t *testing.T) {
	assert.True(t, phoneNumberPattern.MatchString("9841000000"))
	assert.False(t, phoneNumberPattern.MatchString("984100000"))
	assert.False(t, phoneNumberPattern.MatchString("98410000000"))
	assert.False(t, phoneNumberPattern.MatchString("98410o0000"))
	assert.False(t, phoneNumberPattern.MatchString("+9779841000000"))
}
