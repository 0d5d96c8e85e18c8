package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucauth "github.com/BruksfildServices01/barber-booking/internal/usecase/auth"
)

type MeHandler struct {
	auth *ucauth.Service
}

func NewMeHandler(auth *ucauth.Service) *MeHandler {
	return &MeHandler{auth: auth}
}

type UpdateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Username *string `json:"username" binding:"omitempty,max=50"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	profile, err := h.auth.Me(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, profile)
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.Principal(c), ucauth.UpdateProfileInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Phone:    req.Phone,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, user)
}

func (h *MeHandler) DeleteMe(c *gin.Context) {
	if err := h.auth.DeleteAccount(c.Request.Context(), middleware.Principal(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
