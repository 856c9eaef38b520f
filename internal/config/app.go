package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds everything except the database settings.
type AppConfig struct {
	ServerPort         string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CORSAllowedOrigins []string
	TrustedProxies     []string
	AuthRatePerMinute  int
	AuthRateBurst      int
	InitialAdmin       *InitialAdmin
}

// InitialAdmin describes the admin account created at startup when missing.
type InitialAdmin struct {
	Username string
	Email    string
	Password string
}

// LoadAppConfig reads the application settings from the environment.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		AccessTokenTTL:     time.Duration(getEnvInt("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL:    time.Duration(getEnvInt("JWT_REFRESH_TTL_HOURS", 24*7)) * time.Hour,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
		AuthRatePerMinute:  getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 20),
		AuthRateBurst:      getEnvInt("AUTH_RATE_LIMIT_BURST", 5),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	adminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	adminUsername := os.Getenv("INITIAL_ADMIN_USERNAME")
	adminPassword := os.Getenv("INITIAL_ADMIN_PASSWORD")
	if adminEmail != "" && adminUsername != "" && adminPassword != "" {
		cfg.InitialAdmin = &InitialAdmin{Username: adminUsername, Email: adminEmail, Password: adminPassword}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Invalid %s=%q, defaulting to %d", key, raw, fallback)
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
