package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"car_dealership/internal/config"
	"car_dealership/internal/handler"
	"car_dealership/internal/middleware"
	"car_dealership/internal/repository"
	"car_dealership/internal/service"
	"car_dealership/internal/utils"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("car dealership API: %v", err)
	}
	log.Println("Server stopped")
}

func run(ctx context.Context) error {
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		return fmt.Errorf("load DB config: %w", err)
	}
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		return fmt.Errorf("load app config: %w", err)
	}

	pool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := config.AutoMigrate(ctx, pool); err != nil {
		return err
	}

	jwtUtil := utils.NewJWTUtil(appCfg.JWTSecret, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL)

	users := repository.NewUserRepository(pool)
	cars := repository.NewCarRepository(pool)

	authService := service.NewAuthService(users, jwtUtil)
	if appCfg.InitialAdmin != nil {
		if _, err := authService.EnsureAdmin(ctx, *appCfg.InitialAdmin); err != nil {
			return fmt.Errorf("bootstrap initial admin: %w", err)
		}
	}

	authLimiter := middleware.NewLimiterStore(appCfg.AuthRatePerMinute, appCfg.AuthRateBurst, time.Minute)
	defer authLimiter.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		JWT:            jwtUtil,
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		TrustedProxies: appCfg.TrustedProxies,
		AuthLimiter:    authLimiter,
		DB:             pool,
		Auth:           authService,
		Cars:           service.NewCarService(cars),
		Messages:       service.NewMessageService(repository.NewMessageRepository(pool)),
		Favorites:      service.NewFavoriteService(repository.NewFavoriteRepository(pool), cars),
		Admin:          service.NewAdminService(users, repository.NewStatsRepository(pool)),
	})

	srv := &http.Server{
		Addr:              ":" + appCfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s", appCfg.ServerPort)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
