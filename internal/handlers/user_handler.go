package handlers

import (
	"net/http"

	"climatework_backend/internal/middleware"
	"climatework_backend/internal/models"
	"climatework_backend/internal/services"
	"climatework_backend/internal/services/dto"
	"climatework_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin views: user listing and per-user audit trail.
type UserHandler struct {
	*BaseHandler
	userService services.UserService
	audit       services.AuditService
	guard       *middleware.RouteGuard
}

func NewUserHandler(v *validator.Validator, userService services.UserService, audit services.AuditService, guard *middleware.RouteGuard) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(v),
		userService: userService,
		audit:       audit,
		guard:       guard,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(h.guard.RequireAuth(), h.guard.RequireRole(models.UserTypeAdmin, false))
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.GET("/users/:id/security-events", h.ListSecurityEvents)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserFilterRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.userService.ListUsers(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	info, err := h.userService.GetUser(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *UserHandler) ListSecurityEvents(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 50)
	events, err := h.audit.ListRecent(h.GetDB(c), c.Param("id"), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
