package repository

import (
	"context"
	"fmt"

	"car_dealership/internal/model"
)

// FavoriteRepository manages the user_favorites join table
type FavoriteRepository interface {
	Add(ctx context.Context, userID, carID int64) (bool, error)
	Remove(ctx context.Context, userID, carID int64) (bool, error)
	Exists(ctx context.Context, userID, carID int64) (bool, error)
	ListCars(ctx context.Context, userID int64) ([]model.Car, error)
}

type favoriteRepository struct {
	db DB
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(db DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add links a car to a user. It reports false when the pair already exists; the
// primary key decides, so concurrent adds cannot both succeed.
func (r *favoriteRepository) Add(ctx context.Context, userID, carID int64) (bool, error) {
	sql := `INSERT INTO user_favorites (user_id, car_id) VALUES ($1, $2) ON CONFLICT (user_id, car_id) DO NOTHING`
	cmdTag, err := r.db.Exec(ctx, sql, userID, carID)
	if err != nil {
		if ref := referenceError(err); ref != nil {
			return false, ref
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// Remove unlinks a car from a user and reports whether a link existed
func (r *favoriteRepository) Remove(ctx context.Context, userID, carID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM user_favorites WHERE user_id = $1 AND car_id = $2`, userID, carID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Exists reports whether userID has favorited carID
func (r *favoriteRepository) Exists(ctx context.Context, userID, carID int64) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND car_id = $2)`
	if err := r.db.QueryRow(ctx, sql, userID, carID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// ListCars returns the favorited cars of a user, most recently added first
func (r *favoriteRepository) ListCars(ctx context.Context, userID int64) ([]model.Car, error) {
	sql := `SELECT c.id, c.brand, c.model, c.year, c.price::text, c.images, c.description, c.mileage,
                   c.fuel_type, c.transmission, c.color, c.available, c.created_at, c.updated_at
            FROM user_favorites f JOIN cars c ON c.id = f.car_id
            WHERE f.user_id = $1
            ORDER BY f.created_at DESC, c.id DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	cars := []model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		cars = append(cars, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}
	return cars, nil
}
