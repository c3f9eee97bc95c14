package routes

import (
	"climatework_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every handler under the versioned API group.
func RegisterRoutes(api *gin.RouterGroup, h *handlers.AppHandlers) {
	auth := api.Group("/auth")
	h.AuthHandler.RegisterRoutes(auth)

	h.OnboardingHandler.RegisterRoutes(api)
	h.ProfileHandler.RegisterRoutes(api)
	h.RecommendationHandler.RegisterRoutes(api)
	h.UploadHandler.RegisterRoutes(api)
	h.UserHandler.RegisterRoutes(api)
}
