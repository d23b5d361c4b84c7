package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"varaamo/internal/domain"
	jwtsvc "varaamo/internal/pkg/jwt"
	"varaamo/internal/pkg/response"
)

// Auth validates the bearer token and attaches the acting identity to the
// request context: user_id, role, org_id.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("org_id", claims.OrgID)

		c.Next()
	}
}

// ActorFromContext rebuilds the acting grant the Auth middleware attached.
func ActorFromContext(c *gin.Context) domain.Actor {
	role := domain.RoleName(c.GetString("role"))
	orgID := c.GetInt64("org_id")

	grant := domain.OrgGrant(role, orgID)
	if domain.IsSuperAdmin(role) {
		grant = domain.GlobalGrant(role)
	}

	return domain.Actor{
		UserID: c.GetInt64("user_id"),
		Grant:  grant,
	}
}
