package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN             string
	MaxConns        int32
	ConnectAttempts int
	RetryInterval   time.Duration
}

// LoadDBConfig loads database configuration from environment variables.
// DATABASE_URL, when set, takes precedence over the individual DB_* variables.
func LoadDBConfig() (*DBConfig, error) {
	cfg := &DBConfig{
		MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
		ConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		RetryInterval:   time.Duration(getEnvInt("DB_RETRY_INTERVAL_SECONDS", 5)) * time.Second,
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DSN = url
		return cfg, nil
	}

	var missing []string
	params := map[string]string{}
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"} {
		if params[key] = os.Getenv(key); params[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("database environment variables not set: %s (or set DATABASE_URL)", strings.Join(missing, ", "))
	}

	cfg.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params["DB_HOST"], params["DB_PORT"], params["DB_USER"], os.Getenv("DB_PASSWORD"), params["DB_NAME"],
		getEnv("DB_SSLMODE", "disable"))
	return cfg, nil
}

// ConnectDB opens the pool, retrying while the database comes up.
func ConnectDB(ctx context.Context, cfg *DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid database DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	attempts := max(cfg.ConnectAttempts, 1)

	for attempt := 1; ; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Printf("Connected to PostgreSQL (max %d connections)", poolCfg.MaxConns)
				return pool, nil
			}
			pool.Close()
		}
		if attempt >= attempts {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", attempt, err)
		}
		log.Printf("Database not ready (attempt %d/%d): %v", attempt, attempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
}

// Schema is the idempotent DDL applied by AutoMigrate.
const Schema = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		name VARCHAR(150) NOT NULL DEFAULT '',
		phone VARCHAR(20) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(10) NOT NULL CHECK (role IN ('ADMIN', 'CLIENT')) DEFAULT 'CLIENT',
		date_joined TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cars (
		id BIGSERIAL PRIMARY KEY,
		brand VARCHAR(100) NOT NULL,
		model VARCHAR(100) NOT NULL,
		year INTEGER NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		images JSONB NOT NULL DEFAULT '[]'::jsonb,
		description TEXT NOT NULL,
		mileage INTEGER NOT NULL DEFAULT 0 CHECK (mileage >= 0),
		fuel_type VARCHAR(20) NOT NULL DEFAULT 'Gasoline' CHECK (fuel_type IN ('Gasoline', 'Diesel', 'Electric', 'Hybrid', 'LPG')),
		transmission VARCHAR(20) NOT NULL DEFAULT 'Manual' CHECK (transmission IN ('Manual', 'Automatic')),
		color VARCHAR(50) NOT NULL DEFAULT 'Black',
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email TEXT NOT NULL,
		subject VARCHAR(200) NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		car_id BIGINT REFERENCES cars(id) ON DELETE SET NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- One row per (user, car); the primary key is the duplicate guard
	CREATE TABLE IF NOT EXISTS user_favorites (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		car_id BIGINT NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, car_id)
	);

	CREATE INDEX IF NOT EXISTS idx_cars_brand_model ON cars(brand, model);
	CREATE INDEX IF NOT EXISTS idx_cars_year ON cars(year);
	CREATE INDEX IF NOT EXISTS idx_cars_price ON cars(price);
	CREATE INDEX IF NOT EXISTS idx_cars_created_at ON cars(created_at);
	CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);
	CREATE INDEX IF NOT EXISTS idx_messages_car_id ON messages(car_id);
	CREATE INDEX IF NOT EXISTS idx_user_favorites_car_id ON user_favorites(car_id);

	CREATE OR REPLACE FUNCTION touch_cars_updated_at() RETURNS trigger AS $fn$
	BEGIN
		NEW.updated_at := NOW();
		RETURN NEW;
	END;
	$fn$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS cars_touch_updated_at ON cars;
	CREATE TRIGGER cars_touch_updated_at
		BEFORE UPDATE ON cars
		FOR EACH ROW EXECUTE FUNCTION touch_cars_updated_at();
	`

// Execer is the subset of pgxpool.Pool used by AutoMigrate.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AutoMigrate applies Schema; it is safe to run on every start.
func AutoMigrate(ctx context.Context, db Execer) error {
	_, err := db.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	log.Println("Database schema is up to date")
	return nil
}
