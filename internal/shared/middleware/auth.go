package middleware

import (
	"strings"

	"events-backend/internal/shared/actor"
	"events-backend/internal/shared/response"
	"events-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and attaches the actor to the
// request context for downstream handlers and services.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		a := actor.Actor{
			ID:           claims.ActorID,
			Capabilities: claims.Capabilities,
		}
		c.Set("actor_id", a.ID)
		c.Request = c.Request.WithContext(actor.WithActor(c.Request.Context(), a))

		c.Next()
	}
}

// RequireCapability rejects actors whose token lacks the named capability.
// Must run after AuthMiddleware.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := actor.FromContext(c.Request.Context())

		for _, name := range a.Capabilities {
			if name == capability {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "you are not allowed to perform this action")
		c.Abort()
	}
}
