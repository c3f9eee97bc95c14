package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"climatework_backend/internal/auth"
	"climatework_backend/internal/services"
	"climatework_backend/internal/services/dto"
	"climatework_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// callbackTimeout mirrors the client-side loading guard: the callback either
// resolves or redirects to login within this window, never hangs.
const callbackTimeout = 10 * time.Second

type AuthHandler struct {
	*BaseHandler
	authService     services.AuthService
	callbackService services.CallbackService
}

func NewAuthHandler(v *validator.Validator, authService services.AuthService, callbackService services.CallbackService) *AuthHandler {
	return &AuthHandler{
		BaseHandler:     NewBaseHandler(v),
		authService:     authService,
		callbackService: callbackService,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/verify-email", h.VerifyEmail)
	rg.POST("/callback", h.Callback)
	rg.GET("/callback", h.Callback)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(h.GetDB(c), &req, c.ClientIP())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(h.GetDB(c), &req, c.ClientIP())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyEmail(h.GetDB(c), req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Callback reconciles the post-authentication redirect. The query parameters
// arrive from the provider redirect; a JSON body works too for clients that
// re-post after a soft retry.
func (h *AuthHandler) Callback(c *gin.Context) {
	var req dto.CallbackRequest
	if c.Request.Method == http.MethodGet {
		if err := c.ShouldBindQuery(&req); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	} else if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), callbackTimeout)
	defer cancel()

	result := h.callbackService.HandleCallback(ctx, h.GetDB(c), &req, h.sessionUserID(c), c.ClientIP())
	if result.Failed() {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// sessionUserID pulls the identity from an optional bearer token. The
// callback route is unguarded, so this is best-effort: an invalid token just
// means no surviving session.
func (h *AuthHandler) sessionUserID(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return ""
	}
	return claims.UserID
}
