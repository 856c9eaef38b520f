package handler

import (
	"net/http"

	"car_dealership/internal/model"
	"car_dealership/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard and user management
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "retrieve statistics")
		return
	}
	success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	users, err := h.service.ListUsers(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "retrieve users")
		return
	}
	success(c, http.StatusOK, gin.H{"count": len(users), "users": users})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "user")
	if !valid {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "retrieve user")
		return
	}
	success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "user")
	if !valid {
		return
	}
	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateUser(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err, "update user")
		return
	}
	success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "user")
	if !valid {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), actor, id); err != nil {
		respondError(c, err, "delete user")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("/stats", h.Stats)
		adminRoutes.GET("/users", h.ListUsers)
		adminRoutes.GET("/users/:id", h.GetUser)
		adminRoutes.PUT("/users/:id", h.UpdateUser)
		adminRoutes.DELETE("/users/:id", h.DeleteUser)
	}
}
