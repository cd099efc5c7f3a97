package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// AuthHandler exposes registration, login, and profile.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "email, password (min 8 chars), and name are required")
		return
	}

	user, token, err := h.auth.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			utils.Error(c, 409, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		log.Error().Err(err).Msg("registration failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Registration failed")
		return
	}

	utils.Success(c, 201, "Account created", gin.H{"user": user, "token": token})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "email and password are required")
		return
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("login failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Login failed")
		return
	}

	utils.Success(c, 200, "Signed in", gin.H{"user": user, "token": token})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Profile(c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			utils.Error(c, 401, "INVALID_TOKEN", "Account not found")
			return
		}
		log.Error().Err(err).Msg("profile read failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read profile")
		return
	}
	utils.Success(c, 200, "OK", user)
}
