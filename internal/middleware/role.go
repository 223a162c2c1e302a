package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if s, _ := role.(string); !allowed[s] {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}

// VendorOnly requires the vendor role and a vendor id in the token.
func VendorOnly() gin.HandlerFunc {
	role := RequireRole("vendor")
	return func(c *gin.Context) {
		role(c)
		if c.IsAborted() {
			return
		}
		if VendorID(c) == 0 {
			response.CustomError(c, http.StatusForbidden, "VENDOR_REQUIRED", "Token is not bound to a vendor")
		}
	}
}
