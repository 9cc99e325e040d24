package handlers

import (
	"net/http"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/middleware"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	userService services.UserService
	log         logrus.FieldLogger
}

func NewAuthHandler(userService services.UserService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{userService: userService, log: log}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, h.log, &req) {
		return
	}
	result, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.WithField("user_id", result.User.ID).Info("staff login")
	respond(c, http.StatusOK, result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		respondError(c, h.log, apperror.Unauthorized("not signed in"))
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, user)
}
