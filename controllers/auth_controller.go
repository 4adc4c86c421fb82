package controllers

import (
	"net/http"

	"pawperfection/middleware"
	"pawperfection/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	auth    *services.AuthService
	logger  *zap.Logger
	devMode bool
}

func NewAuthController(auth *services.AuthService, logger *zap.Logger, devMode bool) *AuthController {
	return &AuthController{auth: auth, logger: logger, devMode: devMode}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Valid email and a password of at least 8 characters are required", nil)
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if err.Error() == "user already exists" {
			respond(c, http.StatusConflict, "User already exists", nil)
			return
		}
		respondError(c, err, ac.devMode)
		return
	}

	ac.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	respond(c, http.StatusCreated, "User registered", user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, pair, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	respond(c, http.StatusOK, "Login successful", gin.H{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Refresh token is required", nil)
		return
	}

	pair, err := ac.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respond(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}

	respond(c, http.StatusOK, "Token refreshed", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := ac.auth.Logout(c.Request.Context(), user.ID); err != nil {
		respondError(c, err, ac.devMode)
		return
	}
	respond(c, http.StatusOK, "Logged out", nil)
}

func (ac *AuthController) Profile(c *gin.Context) {
	respond(c, http.StatusOK, "Profile fetched", middleware.CurrentUser(c))
}
