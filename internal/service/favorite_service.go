package service

import (
	"context"
	"errors"
	"fmt"

	"car_dealership/internal/model"
	"car_dealership/internal/repository"
)

// FavoriteService manages the caller's own favorite cars
type FavoriteService interface {
	ListFavorites(ctx context.Context, actor model.Principal) ([]model.CarSummary, error)
	AddFavorite(ctx context.Context, actor model.Principal, carID int64) error
	RemoveFavorite(ctx context.Context, actor model.Principal, carID int64) error
	IsFavorite(ctx context.Context, actor model.Principal, carID int64) (bool, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	cars      repository.CarRepository
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(favorites repository.FavoriteRepository, cars repository.CarRepository) FavoriteService {
	return &favoriteService{favorites: favorites, cars: cars}
}

func (s *favoriteService) ListFavorites(ctx context.Context, actor model.Principal) ([]model.CarSummary, error) {
	cars, err := s.favorites.ListCars(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites from repo: %w", err)
	}
	summaries := make([]model.CarSummary, 0, len(cars))
	for i := range cars {
		summaries = append(summaries, cars[i].Summary())
	}
	return summaries, nil
}

func (s *favoriteService) requireCar(ctx context.Context, carID int64) error {
	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return fmt.Errorf("failed to find car by ID: %w", err)
	}
	if car == nil {
		return ErrCarNotFound
	}
	return nil
}

// AddFavorite relies on the (user_id, car_id) key: only one of two racing adds succeeds.
func (s *favoriteService) AddFavorite(ctx context.Context, actor model.Principal, carID int64) error {
	if err := s.requireCar(ctx, carID); err != nil {
		return err
	}
	added, err := s.favorites.Add(ctx, actor.UserID, carID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCarReference):
			return ErrCarNotFound
		case errors.Is(err, repository.ErrUserReference):
			return ErrUnauthorized
		}
		return fmt.Errorf("failed to add favorite in repo: %w", err)
	}
	if !added {
		return ErrAlreadyFavorite
	}
	return nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, actor model.Principal, carID int64) error {
	if err := s.requireCar(ctx, carID); err != nil {
		return err
	}
	removed, err := s.favorites.Remove(ctx, actor.UserID, carID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite in repo: %w", err)
	}
	if !removed {
		return ErrNotFavorite
	}
	return nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, actor model.Principal, carID int64) (bool, error) {
	ok, err := s.favorites.Exists(ctx, actor.UserID, carID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite in repo: %w", err)
	}
	return ok, nil
}
