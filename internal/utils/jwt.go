package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"car_dealership/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// ErrWrongTokenType is returned when a refresh token is presented as an access token or vice versa.
var ErrWrongTokenType = errors.New("wrong token type")

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID    int64      `json:"user_id"`
	Role      model.Role `json:"role"`
	TokenType TokenType  `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, accessTTL, refreshTTL time.Duration) *JWTUtil {
	return &JWTUtil{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// GenerateAccessToken issues a token accepted by the auth middleware.
func (ju *JWTUtil) GenerateAccessToken(userID int64, role model.Role) (string, error) {
	return ju.generate(userID, role, TokenTypeAccess, ju.accessTTL)
}

// GenerateRefreshToken issues a long-lived token that can only be exchanged for an access token.
func (ju *JWTUtil) GenerateRefreshToken(userID int64, role model.Role) (string, error) {
	return ju.generate(userID, role, TokenTypeRefresh, ju.refreshTTL)
}

func (ju *JWTUtil) generate(userID int64, role model.Role, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    userID,
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates the JWT token signature and expiry
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// ValidateAccessToken validates tokenString and requires it to be an access token.
func (ju *JWTUtil) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return ju.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates tokenString and requires it to be a refresh token.
func (ju *JWTUtil) ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return ju.validateType(tokenString, TokenTypeRefresh)
}

func (ju *JWTUtil) validateType(tokenString string, typ TokenType) (*JWTClaims, error) {
	claims, err := ju.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
