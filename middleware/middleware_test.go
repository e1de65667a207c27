package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaika/globals"
)

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return s
}

func TestValidateJWTRoundtrip(t *testing.T) {
	signed := signToken(t, &Claims{
		Username: "asha",
		UserID:   "u123",
		Role:     []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ValidateJWT("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, "asha", claims.Username)
	assert.Equal(t, "u123", claims.UserID)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("")
	assert.Error(t, err)

	_, err = ValidateJWT("Bearer notatoken")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	signed := signToken(t, &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := ValidateJWT("Bearer " + signed)
	assert.Error(t, err)
}
