package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit/internal/domain"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"

	actorContextKey = "actor"
)

// ActorMiddleware resolves the acting user from the identity headers set
// by the auth layer in front of this service. Requests without both
// headers, or with an unknown role, are rejected.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		role := domain.Role(c.GetHeader(userRoleHeader))

		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing user identity",
			})
			return
		}

		switch role {
		case domain.RolePassenger, domain.RoleDriver, domain.RoleOffice:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "unknown role",
			})
			return
		}

		c.Set(actorContextKey, domain.Actor{UserID: userID, Role: role})
		c.Next()
	}
}

// ActorFrom extracts the acting user from the gin context. The boolean is
// false when ActorMiddleware did not run for this request.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
