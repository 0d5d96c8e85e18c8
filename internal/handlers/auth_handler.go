package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucauth "github.com/BruksfildServices01/barber-booking/internal/usecase/auth"
)

type AuthHandler struct {
	auth *ucauth.Service
}

func NewAuthHandler(auth *ucauth.Service) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// --------- Requests ---------

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,max=50"`
	Phone    string `json:"phone" binding:"max=20"`
	Role     string `json:"role" binding:"omitempty,oneof=CLIENT BARBER ADMIN"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.auth.Register(c.Request.Context(), ucauth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
		Username: req.Username,
		Phone:    req.Phone,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, sess)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, sess)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, sess)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.Principal(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
