package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperr"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "507f1f77bcf86cd799439011", "customer", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "id", "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), token)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, "id", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	require.Error(t, err)
}
