package handlers

import (
	"net/http"

	"climatework_backend/internal/middleware"
	"climatework_backend/internal/models"
	"climatework_backend/internal/services"
	"climatework_backend/internal/validator"
	"climatework_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	guard         *middleware.RouteGuard
}

func NewUploadHandler(v *validator.Validator, uploadService services.UploadService, guard *middleware.RouteGuard) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   NewBaseHandler(v),
		uploadService: uploadService,
		guard:         guard,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	uploads.Use(h.guard.RequireAuth())
	{
		// Resume upload happens during onboarding step 4, before
		// profile_completed, so the role gate allows a missing profile.
		uploads.POST("/resume", h.guard.RequireRole(models.UserTypeJobSeeker, true), h.UploadResume)
		uploads.POST("/logo", h.guard.RequireRole(models.UserTypePartner, true), h.UploadLogo)
	}
}

func (h *UploadHandler) UploadResume(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing file field"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	resp, err := h.uploadService.UploadResume(
		c.Request.Context(), h.GetDB(c), userID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) UploadLogo(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing file field"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	resp, err := h.uploadService.UploadPartnerLogo(
		c.Request.Context(), h.GetDB(c), userID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
