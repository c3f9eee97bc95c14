package handlers

import (
	"net/http"

	"climatework_backend/internal/middleware"
	"climatework_backend/internal/models"
	"climatework_backend/internal/services"
	"climatework_backend/internal/services/dto"
	"climatework_backend/internal/validator"
	"climatework_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	*BaseHandler
	onboardingService services.OnboardingService
	guard             *middleware.RouteGuard
}

func NewOnboardingHandler(v *validator.Validator, onboardingService services.OnboardingService, guard *middleware.RouteGuard) *OnboardingHandler {
	return &OnboardingHandler{
		BaseHandler:       NewBaseHandler(v),
		onboardingService: onboardingService,
		guard:             guard,
	}
}

// RegisterRoutes mounts the step pages. Step pages allow access without a
// profile row since step 1 is what creates it.
func (h *OnboardingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobSeeker := rg.Group("/onboarding/job-seeker")
	jobSeeker.Use(h.guard.RequireAuth(), h.guard.RequireRole(models.UserTypeJobSeeker, true))
	{
		jobSeeker.GET("/step/:step", h.GetJobSeekerStep)
		jobSeeker.POST("/step/:step", h.SubmitJobSeekerStep)
	}

	partner := rg.Group("/onboarding/partner")
	partner.Use(h.guard.RequireAuth(), h.guard.RequireRole(models.UserTypePartner, true))
	{
		partner.GET("/step/:step", h.GetPartnerStep)
		partner.POST("/step/:step", h.SubmitPartnerStep)
	}
}

func (h *OnboardingHandler) GetJobSeekerStep(c *gin.Context) {
	h.getStep(c, models.UserTypeJobSeeker)
}

func (h *OnboardingHandler) GetPartnerStep(c *gin.Context) {
	h.getStep(c, models.UserTypePartner)
}

func (h *OnboardingHandler) getStep(c *gin.Context, userType models.UserType) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	step, err := ParseParamInt(c, "step")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	state, err := h.onboardingService.GetStep(h.GetDB(c), userID, userType, step)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *OnboardingHandler) SubmitJobSeekerStep(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	step, err := ParseParamInt(c, "step")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)
	var result *dto.StepResult
	var submitErr error

	switch step {
	case 1:
		var req dto.JobSeekerStep1Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitJobSeekerStep1(db, userID, &req)
		if submitErr == nil {
			// Step 1 may have created the profile row the guard caches as
			// absent.
			h.guard.InvalidateProfile(userID)
		}
	case 2:
		var req dto.JobSeekerStep2Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitJobSeekerStep2(db, userID, &req)
	case 3:
		var req dto.JobSeekerStep3Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitJobSeekerStep3(db, userID, &req)
	case 4:
		var req dto.JobSeekerStep4Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitJobSeekerStep4(db, userID, &req)
	case 5:
		var req dto.JobSeekerStep5Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitJobSeekerStep5(db, userID, &req)
		if submitErr == nil {
			h.guard.InvalidateProfile(userID)
		}
	default:
		h.HandleServiceError(c, apperrors.ErrInvalidStep)
		return
	}

	if submitErr != nil {
		h.HandleServiceError(c, submitErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OnboardingHandler) SubmitPartnerStep(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	step, err := ParseParamInt(c, "step")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)
	var result *dto.StepResult
	var submitErr error

	switch step {
	case 1:
		var req dto.PartnerStep1Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitPartnerStep1(db, userID, &req)
		if submitErr == nil {
			h.guard.InvalidateProfile(userID)
		}
	case 2:
		var req dto.PartnerStep2Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitPartnerStep2(db, userID, &req)
	case 3:
		var req dto.PartnerStep3Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitPartnerStep3(db, userID, &req)
	case 4:
		var req dto.PartnerStep4Request
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		result, submitErr = h.onboardingService.SubmitPartnerStep4(db, userID, &req)
		if submitErr == nil {
			h.guard.InvalidateProfile(userID)
		}
	default:
		h.HandleServiceError(c, apperrors.ErrInvalidStep)
		return
	}

	if submitErr != nil {
		h.HandleServiceError(c, submitErr)
		return
	}
	c.JSON(http.StatusOK, result)
}
