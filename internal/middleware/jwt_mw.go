package middleware

import (
	"net/http"
	"strings"

	"car_dealership/internal/model"
	"car_dealership/internal/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "authPrincipal"

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// present is false when the header is absent; errMsg is set when it is malformed.
func bearerToken(c *gin.Context) (token string, present bool, errMsg string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", true, "Invalid authorization header format"
	}
	return parts[1], true, ""
}

// JWTAuthMiddleware requires a valid access token and stores the caller's principal
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, errMsg := bearerToken(c)
		if !present {
			abortUnauthorized(c, "Authorization header required")
			return
		}
		if errMsg != "" {
			abortUnauthorized(c, errMsg)
			return
		}

		claims, err := jwtUtil.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(principalKey, model.Principal{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// OptionalJWTAuthMiddleware authenticates the caller when a token is sent and lets
// anonymous requests through. A token that is sent but invalid is still rejected.
func OptionalJWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, errMsg := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		if errMsg != "" {
			abortUnauthorized(c, errMsg)
			return
		}
		claims, err := jwtUtil.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		c.Set(principalKey, model.Principal{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated caller, if any.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
