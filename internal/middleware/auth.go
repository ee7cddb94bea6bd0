package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lazari03/pyetdoktorin-sub001/internal/models"
	"github.com/lazari03/pyetdoktorin-sub001/internal/utils"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

// Auth validates the bearer token and exposes the actor identity to handlers.
func Auth(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := jwt.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

// ActorFrom reads the identity the auth middleware stored on the context.
func ActorFrom(c *gin.Context) models.Actor {
	id, _ := c.Get(ctxUserID)
	role, _ := c.Get(ctxUserRole)
	actor := models.Actor{}
	if s, ok := id.(string); ok {
		actor.ID = s
	}
	if s, ok := role.(string); ok {
		actor.Role = s
	}
	return actor
}
