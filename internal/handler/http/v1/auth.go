package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

const userCtxKey = "currentUser"

// AuthMiddleware - middleware для аутентификации по bearer-токену.
// Разрешенный пользователь кладется в контекст запроса.
func AuthMiddleware(guardianService service.GuardianService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			// WebSocket-клиенты из браузера не могут выставлять заголовки
			token = c.Query("token")
		}

		if token == "" {
			log.Warn("Bearer token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		user, err := guardianService.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Warn("Failed to authenticate request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userCtxKey, user)
		c.Next()
	}
}

// currentUser достает аутентифицированного пользователя из контекста запроса
func currentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
