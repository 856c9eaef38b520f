package handler

import (
	"net/http"

	"car_dealership/internal/model"
	"car_dealership/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "register user")
		return
	}

	success(c, http.StatusCreated, gin.H{
		"token":   result.AccessToken,
		"refresh": result.RefreshToken,
		"user":    result.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login")
		return
	}

	success(c, http.StatusOK, gin.H{
		"token":   result.AccessToken,
		"refresh": result.RefreshToken,
		"user":    result.User,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, err, "refresh token")
		return
	}
	success(c, http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	user, err := h.service.Me(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "load profile")
		return
	}
	success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	var req model.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), actor, req); err != nil {
		respondError(c, err, "change password")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// RegisterAuthRoutes registers auth routes. limitMW throttles the credential endpoints.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW, limitMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", limitMW, h.Register)
		authGroup.POST("/login", limitMW, h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", authMW, h.Me)
		authGroup.PUT("/profile", authMW, h.UpdateProfile)
		authGroup.POST("/password", authMW, h.ChangePassword)
	}
}
