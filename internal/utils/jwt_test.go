package utils

import (
	"testing"
	"time"

	"car_dealership/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTUtil_GenerateAccessToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)
	var userID int64 = 1

	tokenString, err := jwtUtil.GenerateAccessToken(userID, model.RoleClient)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := jwtUtil.ValidateAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, model.RoleClient, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_RefreshTokenLifetime(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 7*24*time.Hour)

	tokenString, err := jwtUtil.GenerateRefreshToken(42, model.RoleAdmin)
	require.NoError(t, err)

	claims, err := jwtUtil.ValidateRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_TokenTypesAreNotInterchangeable(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)

	access, _ := jwtUtil.GenerateAccessToken(1, model.RoleClient)
	refresh, _ := jwtUtil.GenerateRefreshToken(1, model.RoleClient)

	_, err := jwtUtil.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = jwtUtil.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTUtil_TokensAreUnique(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)

	a, _ := jwtUtil.GenerateAccessToken(1, model.RoleClient)
	b, _ := jwtUtil.GenerateAccessToken(1, model.RoleClient)
	assert.NotEqual(t, a, b)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour, time.Hour)

	tokenString, _ := jwtUtil.GenerateAccessToken(1, model.RoleClient)

	_, err := jwtUtil.ValidateAccessToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour, time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour, time.Hour)

	tokenString, _ := jwtUtil1.GenerateAccessToken(1, model.RoleClient)

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)
	claims := &JWTClaims{
		UserID:    1,
		Role:      model.RoleAdmin,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}
