package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"varaamo/internal/domain"
	"varaamo/internal/pkg/response"
)

// RequireMinLevel admits org-scoped roles at or above the given hierarchy
// level. Super admins always pass.
func RequireMinLevel(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		name := domain.RoleName(role.(string))
		if domain.IsSuperAdmin(name) {
			c.Next()
			return
		}

		if domain.Level(name) < level {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly requires an admin-or-higher grant.
func AdminOnly() gin.HandlerFunc {
	return RequireMinLevel(domain.Level(domain.RoleAdmin))
}

// SuperAdminOnly requires the global grant.
func SuperAdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !domain.IsSuperAdmin(domain.RoleName(c.GetString("role"))) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: super admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
