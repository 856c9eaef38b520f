package handler

import (
	"net/http"
	"strconv"

	"car_dealership/internal/model"
	"car_dealership/internal/service"

	"github.com/gin-gonic/gin"
)

// CarHandler handles catalog requests
type CarHandler struct {
	service service.CarService
}

// NewCarHandler creates a new CarHandler
func NewCarHandler(s service.CarService) *CarHandler {
	return &CarHandler{service: s}
}

// queryFirst returns the first non-empty query value among names.
func queryFirst(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return v
		}
	}
	return ""
}

// parseCarFilters reads the catalog query parameters; French aliases (marque, annee) are accepted.
func parseCarFilters(c *gin.Context) (model.CarFilters, map[string]string) {
	var filters model.CarFilters
	errs := map[string]string{}

	if brand := queryFirst(c, "brand", "marque"); brand != "" {
		filters.Brand = &brand
	}
	if yearParam := queryFirst(c, "year", "annee"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			errs["year"] = "a valid integer is required"
		} else {
			filters.Year = &year
		}
	}
	if minParam := c.Query("minPrice"); minParam != "" {
		p, err := model.NewPrice(minParam)
		if err != nil {
			errs["minPrice"] = "a valid number is required"
		} else {
			filters.MinPrice = &p
		}
	}
	if maxParam := c.Query("maxPrice"); maxParam != "" {
		p, err := model.NewPrice(maxParam)
		if err != nil {
			errs["maxPrice"] = "a valid number is required"
		} else {
			filters.MaxPrice = &p
		}
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	filters.Sort = model.ParseCarSort(c.Query("sort"))
	return filters, errs
}

func (h *CarHandler) ListCars(c *gin.Context) {
	filters, errs := parseCarFilters(c)
	if len(errs) > 0 {
		failFields(c, errs)
		return
	}

	cars, err := h.service.ListCars(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err, "retrieve cars")
		return
	}
	summaries := make([]model.CarSummary, 0, len(cars))
	for i := range cars {
		summaries = append(summaries, cars[i].Summary())
	}
	success(c, http.StatusOK, gin.H{"count": len(summaries), "data": summaries})
}

func (h *CarHandler) GetCar(c *gin.Context) {
	id, valid := pathID(c, "id", "car")
	if !valid {
		return
	}
	car, err := h.service.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "retrieve car")
		return
	}
	success(c, http.StatusOK, gin.H{"data": car})
}

func (h *CarHandler) CreateCar(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	var req model.CreateCarRequest
	if !bindJSON(c, &req) {
		return
	}
	car, err := h.service.CreateCar(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "create car")
		return
	}
	success(c, http.StatusCreated, gin.H{"data": car})
}

func (h *CarHandler) UpdateCar(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "car")
	if !valid {
		return
	}
	var req model.UpdateCarRequest
	if !bindJSON(c, &req) {
		return
	}
	car, err := h.service.UpdateCar(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err, "update car")
		return
	}
	success(c, http.StatusOK, gin.H{"data": car})
}

func (h *CarHandler) DeleteCar(c *gin.Context) {
	actor, found := principal(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id", "car")
	if !valid {
		return
	}
	if err := h.service.DeleteCar(c.Request.Context(), actor, id); err != nil {
		respondError(c, err, "delete car")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Car deleted successfully"})
}

// RegisterCarRoutes registers catalog routes. Reads are public; writes need catalogMW.
func (h *CarHandler) RegisterCarRoutes(rg *gin.RouterGroup, authMW, catalogMW gin.HandlerFunc) {
	cars := rg.Group("/cars")
	{
		cars.GET("", h.ListCars)
		cars.GET("/:id", h.GetCar)
		cars.POST("", authMW, catalogMW, h.CreateCar)
		cars.PUT("/:id", authMW, catalogMW, h.UpdateCar)
		cars.DELETE("/:id", authMW, catalogMW, h.DeleteCar)
	}
}
