package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/pkg/apperr"
	"github.com/oksasatya/recipe-share-api/pkg/response"
	"github.com/oksasatya/recipe-share-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	profile, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "register failed")
		return
	}
	response.Success(c, http.StatusOK, profile, "User registered successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	profile, err := h.Svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}
	response.Success(c, http.StatusOK, profile, "Login successful", nil)
}

// fail maps a service error onto the response envelope, logging only
// the server-side kinds.
func (h *UserHandler) fail(c *gin.Context, err error, msg string) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).Error(msg)
	}
	response.Error[any](c, status, err.Error(), nil)
}
