package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/middlewares"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/requests"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/responses"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// AuthHandler exposes registration, login and identity endpoints.
type AuthHandler struct {
	users  *user.Service
	logger zerolog.Logger
}

func NewAuthHandler(users *user.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// Register creates an account and returns it with a signed token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req requests.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}

	creds, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		responses.HandleError(c, err, "failed to register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": creds.Token, "user": creds.User})
}

// Login authenticates by username-or-email plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}

	creds, err := h.users.Login(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		responses.HandleError(c, err, "failed to login")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": creds.Token, "user": creds.User})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := middlewares.UserFromContext(c)
	c.JSON(http.StatusOK, gin.H{"user": caller})
}
