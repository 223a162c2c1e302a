package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trekmarket/internal/pkg/jwt"
	"trekmarket/internal/pkg/response"
)

const (
	ctxUserID     = "user_id"
	ctxRoleID     = "role_id"
	ctxRole       = "role"
	ctxVendorID   = "vendor_id"
	ctxCustomerID = "customer_id"
)

// CustomerStatusChecker reports whether a customer may still use the API.
type CustomerStatusChecker interface {
	IsCustomerActive(ctx context.Context, customerID int64) (bool, error)
}

// StaffAuth accepts admin and vendor tokens only.
func StaffAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			return
		}
		if claims.Type != jwt.TypeStaff {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Staff token required")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRoleID, claims.RoleID)
		c.Set(ctxRole, claims.Role)
		if claims.VendorID != nil {
			c.Set(ctxVendorID, *claims.VendorID)
		}
		c.Next()
	}
}

// CustomerAuth accepts customer tokens whose customer is still active.
func CustomerAuth(tokens *jwt.Service, checker CustomerStatusChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			return
		}
		if claims.Type != jwt.TypeCustomer || claims.CustomerID <= 0 {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Customer token required")
			return
		}

		active, err := checker.IsCustomerActive(c.Request.Context(), claims.CustomerID)
		if err != nil {
			_ = c.Error(err)
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify customer")
			return
		}
		if !active {
			response.CustomError(c, http.StatusForbidden, "CUSTOMER_INACTIVE", "Customer account is not active")
			return
		}

		c.Set(ctxCustomerID, claims.CustomerID)
		c.Set(ctxRole, "customer")
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokens *jwt.Service) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
		return nil, false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
		return nil, false
	}

	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	claims, err := tokens.ValidateToken(tokenStr)
	if err != nil {
		response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return nil, false
	}
	return claims, true
}

func UserID(c *gin.Context) int64     { return c.GetInt64(ctxUserID) }
func VendorID(c *gin.Context) int64   { return c.GetInt64(ctxVendorID) }
func CustomerID(c *gin.Context) int64 { return c.GetInt64(ctxCustomerID) }
func Role(c *gin.Context) string      { return c.GetString(ctxRole) }
