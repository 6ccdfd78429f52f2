package service

import (
	"testing"
	"time"

	"github.com/classboard/gateway/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyTokenRoundtrip(t *testing.T) {
	tokens := NewTokenService(testSecret, 1)

	signed, err := tokens.IssueToken(&models.Admin{AID: 42, Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	identity, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.AID)
	assert.Equal(t, models.RoleSuperAdmin, identity.Role)
	assert.True(t, identity.IsSuperAdmin())
}

func TestVerifyTokenMalformed(t *testing.T) {
	tokens := NewTokenService(testSecret, 1)

	_, err := tokens.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	tokens := NewTokenService(testSecret, 1)

	signed := signClaims(t, "other-secret", jwt.MapClaims{
		"aid": 1,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := tokens.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	tokens := NewTokenService(testSecret, 1)

	signed := signClaims(t, testSecret, jwt.MapClaims{
		"aid": 1,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := tokens.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenMissingAdminID(t *testing.T) {
	tokens := NewTokenService(testSecret, 1)

	// Correctly signed, but the payload never names an admin
	signed := signClaims(t, testSecret, jwt.MapClaims{
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, err := tokens.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrMissingAdminID)
}

func TestVerifyTokenDefaultsRole(t *testing.T) {
	tokens := NewTokenService(testSecret, 1)

	signed := signClaims(t, testSecret, jwt.MapClaims{
		"aid": 7,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	identity, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.False(t, identity.IsSuperAdmin())
}
