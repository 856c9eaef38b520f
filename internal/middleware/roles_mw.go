package middleware

import (
	"net/http"

	"car_dealership/internal/model"

	"github.com/gin-gonic/gin"
)

// RequirePermission rejects callers whose role does not grant perm. It must run
// after JWTAuthMiddleware.
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			abortUnauthorized(c, "Authentication credentials were not provided")
			return
		}

		if !principal.Role.Can(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to perform this action"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RequirePermission(model.PermManageUsers)
}
