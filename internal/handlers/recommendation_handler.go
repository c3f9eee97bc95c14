package handlers

import (
	"net/http"

	"climatework_backend/internal/middleware"
	"climatework_backend/internal/models"
	"climatework_backend/internal/services"
	"climatework_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	*BaseHandler
	recService services.RecommendationService
	guard      *middleware.RouteGuard
}

func NewRecommendationHandler(v *validator.Validator, recService services.RecommendationService, guard *middleware.RouteGuard) *RecommendationHandler {
	return &RecommendationHandler{
		BaseHandler: NewBaseHandler(v),
		recService:  recService,
		guard:       guard,
	}
}

func (h *RecommendationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recs := rg.Group("/recommendations")
	recs.Use(h.guard.RequireAuth(), h.guard.RequireRole(models.UserTypeJobSeeker, false))
	{
		recs.GET("", h.List)
	}
}

func (h *RecommendationHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", 20)
	recs, err := h.recService.List(h.GetDB(c), userID, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
