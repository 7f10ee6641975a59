package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sienep-api/internal/models"
	"github.com/noah-isme/sienep-api/internal/service"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
	"github.com/noah-isme/sienep-api/pkg/response"
)

// RequireStaff blocks any caller whose token is not a staff token.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Kind != models.KindStaff {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission lets through staff whose role grants the named
// permission. Permission sets come from the role service, which caches
// the resolution.
func RequirePermission(roles *service.RoleService, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Kind != models.KindStaff || claims.RoleID == nil {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		granted, err := roles.PermissionsForRole(c.Request.Context(), *claims.RoleID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		for _, name := range granted {
			if name == permission {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// SelfOrPermission lets a caller operate on their own record, otherwise
// falls back to the permission check.
func SelfOrPermission(roles *service.RoleService, permission string) gin.HandlerFunc {
	check := RequirePermission(roles, permission)
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if targetID, err := strconv.ParseInt(c.Param("id"), 10, 64); err == nil && targetID == claims.UserID {
			c.Next()
			return
		}
		check(c)
	}
}

func currentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
