package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"car_dealership/internal/middleware"
	"car_dealership/internal/model"
	"car_dealership/internal/service"
	"car_dealership/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pinger reports database liveness for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig bundles what NewRouter needs to mount every route.
type RouterConfig struct {
	JWT            *utils.JWTUtil
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; nil trusts none and uses the peer address.
	TrustedProxies []string
	AuthLimiter    *middleware.LimiterStore
	DB             Pinger

	Auth      service.AuthService
	Cars      service.CarService
	Messages  service.MessageService
	Favorites service.FavoriteService
	Admin     service.AdminService
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// NewRouter builds the gin engine with every API route under /api
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("Ignoring invalid trusted proxies %v: %v", cfg.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	jwtAuthMW := middleware.JWTAuthMiddleware(cfg.JWT)
	optionalAuthMW := middleware.OptionalJWTAuthMiddleware(cfg.JWT)
	limitMW := func(c *gin.Context) { c.Next() }
	if cfg.AuthLimiter != nil {
		limitMW = middleware.RateLimitMiddleware(cfg.AuthLimiter)
	}

	apiGroup := router.Group("/api")
	NewAuthHandler(cfg.Auth).RegisterAuthRoutes(apiGroup, jwtAuthMW, limitMW)
	NewCarHandler(cfg.Cars).RegisterCarRoutes(apiGroup, jwtAuthMW, middleware.RequirePermission(model.PermManageCatalog))
	NewMessageHandler(cfg.Messages).RegisterMessageRoutes(apiGroup, jwtAuthMW, optionalAuthMW, middleware.RequirePermission(model.PermManageInbox))
	NewFavoriteHandler(cfg.Favorites).RegisterFavoriteRoutes(apiGroup, jwtAuthMW)
	NewAdminHandler(cfg.Admin).RegisterAdminRoutes(apiGroup, jwtAuthMW, middleware.AdminMiddleware())

	router.GET("/health", func(c *gin.Context) {
		if cfg.DB != nil {
			if err := cfg.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	return router
}
