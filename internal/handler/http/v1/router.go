package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := AuthMiddleware(h.guardianService, h.logger)

	// Маршруты SOS-эпизода
	sos := api.Group("/sos", auth)
	{
		sos.POST("/trigger", h.triggerSOS)
		sos.POST("/resolve", h.resolveSOS)
		sos.GET("/status", h.sosStatus)
		sos.GET("/ws", h.serveWS)
	}

	// Маршруты для управления кругом опекунов
	contacts := api.Group("/user/contacts", auth)
	{
		contacts.GET("", h.listContacts)
		contacts.POST("", h.addContact)
		contacts.DELETE("/:id", h.deleteContact)
	}

	// Маршрут Health-check (без аутентификации)
	api.GET("/system/health", h.healthCheck)
}
