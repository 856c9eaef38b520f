package handler

import (
	"net/http"
	"strconv"

	"car_dealership/internal/service"

	"github.com/gin-gonic/gin"
)

// FavoriteHandler handles the caller's favorites
type FavoriteHandler struct {
	service service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(s service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: s}
}

// favoriteCarID reads the car id from the path or, when absent there, from a {"car_id": n} body.
func favoriteCarID(c *gin.Context) (int64, bool) {
	if c.Param("car_id") != "" {
		return pathID(c, "car_id", "car")
	}
	var body struct {
		CarID *int64 `json:"car_id"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return 0, false
		}
	}
	if body.CarID == nil || *body.CarID <= 0 {
		fail(c, http.StatusBadRequest, "Car ID is required")
		return 0, false
	}
	return *body.CarID, true
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	cars, err := h.service.ListFavorites(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "retrieve favorites")
		return
	}
	success(c, http.StatusOK, gin.H{"count": len(cars), "favorites": cars})
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	carID, valid := favoriteCarID(c)
	if !valid {
		return
	}
	if err := h.service.AddFavorite(c.Request.Context(), actor, carID); err != nil {
		respondError(c, err, "add favorite")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Car added to favorites"})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	carID, valid := favoriteCarID(c)
	if !valid {
		return
	}
	if err := h.service.RemoveFavorite(c.Request.Context(), actor, carID); err != nil {
		respondError(c, err, "remove favorite")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Car removed from favorites"})
}

func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	carID, err := strconv.ParseInt(c.Param("car_id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid car ID")
		return
	}
	isFavorite, err := h.service.IsFavorite(c.Request.Context(), actor, carID)
	if err != nil {
		respondError(c, err, "check favorite")
		return
	}
	success(c, http.StatusOK, gin.H{"is_favorite": isFavorite})
}

// RegisterFavoriteRoutes registers favorites routes; every route requires authentication
func (h *FavoriteHandler) RegisterFavoriteRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	favorites := rg.Group("/favorites")
	favorites.Use(authMW)
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.DELETE("", h.RemoveFavorite)
		favorites.POST("/:car_id", h.AddFavorite)
		favorites.DELETE("/:car_id", h.RemoveFavorite)
		favorites.GET("/check/:car_id", h.CheckFavorite)
	}
}
