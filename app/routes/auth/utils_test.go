package auth

import (
	"testing"

	"zawadi-schools/app/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func loadTestConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_TTL_HOURS", "1")
	config.Load()
}

func TestGenerateAndValidateJWT(t *testing.T) {
	loadTestConfig(t)

	token, err := GenerateJWT("user-1", "tenant-1", "admin@school.test", "Asha", "Nak", []string{"admin", "staff"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "admin@school.test", claims.Email)
	assert.Equal(t, "Asha", claims.FirstName)
	assert.Equal(t, []string{"admin", "staff"}, claims.Roles)
	assert.Equal(t, "zawadi-schools", claims.Issuer)
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	loadTestConfig(t)

	token, err := GenerateJWT("user-1", "tenant-1", "admin@school.test", "Asha", "Nak", []string{"admin"})
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongAlgorithm(t *testing.T) {
	loadTestConfig(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: "user-1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	claims := &JWTClaims{Roles: []string{"teacher", "staff"}}
	assert.True(t, claims.HasRole("teacher"))
	assert.False(t, claims.HasRole("admin"))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2pass"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("hunter2pass", string(hash)))
	assert.False(t, CheckPasswordHash("wrong", string(hash)))
}
