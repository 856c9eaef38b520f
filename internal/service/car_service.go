package service

import (
	"context"
	"fmt"
	"strings"

	"car_dealership/internal/model"
	"car_dealership/internal/repository"
)

// CarService defines catalog operations
type CarService interface {
	ListCars(ctx context.Context, filters model.CarFilters) ([]model.Car, error)
	GetCar(ctx context.Context, id int64) (*model.Car, error)
	CreateCar(ctx context.Context, actor model.Principal, req model.CreateCarRequest) (*model.Car, error)
	UpdateCar(ctx context.Context, actor model.Principal, id int64, req model.UpdateCarRequest) (*model.Car, error)
	DeleteCar(ctx context.Context, actor model.Principal, id int64) error
}

type carService struct {
	repo repository.CarRepository
}

// NewCarService creates a new CarService
func NewCarService(repo repository.CarRepository) CarService {
	return &carService{repo: repo}
}

// validatePrice enforces NUMERIC(10,2): non-negative, at most two fraction digits.
func validatePrice(field string, p model.Price) *ValidationError {
	if p.IsNegative() {
		return newValidationError(field, "ensure this value is greater than or equal to 0")
	}
	if !p.Equal(p.Truncate(model.PriceScale)) {
		return newValidationError(field, "ensure that there are no more than 2 decimal places")
	}
	if len(p.Truncate(0).String()) > model.PriceMaxIntegerDigits {
		return newValidationError(field, "ensure that there are no more than 8 digits before the decimal point")
	}
	return nil
}

func (s *carService) ListCars(ctx context.Context, filters model.CarFilters) ([]model.Car, error) {
	cars, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars from repo: %w", err)
	}
	return cars, nil
}

func (s *carService) GetCar(ctx context.Context, id int64) (*model.Car, error) {
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	if car == nil {
		return nil, ErrCarNotFound
	}
	return car, nil
}

func (s *carService) CreateCar(ctx context.Context, actor model.Principal, req model.CreateCarRequest) (*model.Car, error) {
	if !actor.Role.Can(model.PermManageCatalog) {
		return nil, ErrForbidden
	}
	if verr := blankFields(map[string]string{"brand": req.Brand, "model": req.Model, "description": req.Description}); verr != nil {
		return nil, verr
	}
	if verr := validatePrice("price", *req.Price); verr != nil {
		return nil, verr
	}

	car := &model.Car{
		Brand:        strings.TrimSpace(req.Brand),
		Model:        strings.TrimSpace(req.Model),
		Year:         *req.Year,
		Price:        *req.Price,
		Images:       req.Images,
		Description:  req.Description,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Color:        strings.TrimSpace(req.Color),
		Available:    true,
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	if req.Mileage != nil {
		car.Mileage = *req.Mileage
	}
	if car.FuelType == "" {
		car.FuelType = model.FuelGasoline
	}
	if car.Transmission == "" {
		car.Transmission = model.TransmissionManual
	}
	if car.Color == "" {
		car.Color = model.DefaultCarColor
	}
	if req.Available != nil {
		car.Available = *req.Available
	}

	if err := s.repo.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to create car in repo: %w", err)
	}
	return car, nil
}

func (s *carService) UpdateCar(ctx context.Context, actor model.Principal, id int64, req model.UpdateCarRequest) (*model.Car, error) {
	if !actor.Role.Can(model.PermManageCatalog) {
		return nil, ErrForbidden
	}
	if verr := blankFields(presentText(map[string]*string{
		"brand": req.Brand, "model": req.Model, "description": req.Description,
	})); verr != nil {
		return nil, verr
	}
	car, err := s.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Brand != nil {
		car.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Model != nil {
		car.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.Price != nil {
		if verr := validatePrice("price", *req.Price); verr != nil {
			return nil, verr
		}
		car.Price = *req.Price
	}
	if req.Images != nil {
		car.Images = *req.Images
		if car.Images == nil {
			car.Images = []string{}
		}
	}
	if req.Description != nil {
		car.Description = *req.Description
	}
	if req.Mileage != nil {
		car.Mileage = *req.Mileage
	}
	if req.FuelType != nil {
		car.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		car.Transmission = *req.Transmission
	}
	if req.Color != nil {
		car.Color = strings.TrimSpace(*req.Color)
	}
	if req.Available != nil {
		car.Available = *req.Available
	}

	if err := s.repo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to update car in repo: %w", err)
	}
	return car, nil
}

func (s *carService) DeleteCar(ctx context.Context, actor model.Principal, id int64) error {
	if !actor.Role.Can(model.PermManageCatalog) {
		return ErrForbidden
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete car in repo: %w", err)
	}
	if !deleted {
		return ErrCarNotFound
	}
	return nil
}
