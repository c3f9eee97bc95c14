package handlers

import (
	"net/http"

	"climatework_backend/internal/middleware"
	"climatework_backend/internal/services"
	"climatework_backend/internal/services/dto"
	"climatework_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
	guard          *middleware.RouteGuard
}

func NewProfileHandler(v *validator.Validator, profileService services.ProfileService, guard *middleware.RouteGuard) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(v),
		profileService: profileService,
		guard:          guard,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(h.guard.RequireAuth())
	{
		profile.GET("", h.GetProfile)
		profile.PATCH("", h.UpdateProfile)
		profile.PATCH("/job-seeker", h.UpdateJobSeekerProfile)
		profile.GET("/skills", h.ListSkills)
		profile.PATCH("/skills", h.UpdateSkills)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetUserProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial update to the generic profile row. The
// response carries the mutation outcome so clients can surface degraded
// secondary effects.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.profileService.UpdateUserProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *ProfileHandler) UpdateJobSeekerProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobSeekerProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.profileService.UpdateJobSeekerProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *ProfileHandler) ListSkills(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	skills, err := h.profileService.ListSkills(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

func (h *ProfileHandler) UpdateSkills(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSkillsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.profileService.UpdateUserSkills(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
