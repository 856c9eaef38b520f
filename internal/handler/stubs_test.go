package handler

import (
	"context"
	"sync"

	"car_dealership/internal/config"
	"car_dealership/internal/model"
	"car_dealership/internal/service"
)

type stubAuthService struct {
	result     *model.AuthResult
	err        error
	registered []model.RegisterRequest
}

func (s *stubAuthService) Register(_ context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	s.registered = append(s.registered, req)
	return s.result, s.err
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*model.AuthResult, error) {
	return s.result, s.err
}

func (s *stubAuthService) Refresh(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.result.AccessToken, nil
}

func (s *stubAuthService) Me(_ context.Context, actor model.Principal) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{ID: actor.UserID, Role: actor.Role, Favorites: []int64{}}, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor model.Principal, _ model.UpdateUserRequest) (*model.User, error) {
	return s.Me(ctx, actor)
}

func (s *stubAuthService) ChangePassword(_ context.Context, _ model.Principal, _ model.ChangePasswordRequest) error {
	return s.err
}

func (s *stubAuthService) EnsureAdmin(_ context.Context, _ config.InitialAdmin) (bool, error) {
	return false, nil
}

type stubCarService struct {
	cars        []model.Car
	err         error
	lastFilters model.CarFilters
	created     []model.CreateCarRequest
}

func (s *stubCarService) ListCars(_ context.Context, filters model.CarFilters) ([]model.Car, error) {
	s.lastFilters = filters
	return s.cars, s.err
}

func (s *stubCarService) GetCar(_ context.Context, id int64) (*model.Car, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.cars {
		if s.cars[i].ID == id {
			return &s.cars[i], nil
		}
	}
	return nil, service.ErrCarNotFound
}

func (s *stubCarService) CreateCar(_ context.Context, _ model.Principal, req model.CreateCarRequest) (*model.Car, error) {
	s.created = append(s.created, req)
	if s.err != nil {
		return nil, s.err
	}
	return &model.Car{
		ID: 1, Brand: req.Brand, Model: req.Model, Year: *req.Year, Price: *req.Price,
		Images: []string{}, Description: req.Description, FuelType: model.FuelGasoline,
		Transmission: model.TransmissionManual, Color: model.DefaultCarColor, Available: true,
	}, nil
}

func (s *stubCarService) UpdateCar(ctx context.Context, _ model.Principal, id int64, _ model.UpdateCarRequest) (*model.Car, error) {
	return s.GetCar(ctx, id)
}

func (s *stubCarService) DeleteCar(ctx context.Context, _ model.Principal, id int64) error {
	_, err := s.GetCar(ctx, id)
	return err
}

type stubMessageService struct {
	service.MessageService
	messages []model.Message
	err      error
}

func (s *stubMessageService) CreateMessage(_ context.Context, req model.CreateMessageRequest) (*model.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Message{ID: 1, Name: req.Name, Email: req.Email, Body: req.Body, CarID: req.CarID}, nil
}

func (s *stubMessageService) ListMessages(_ context.Context, actor *model.Principal) ([]model.Message, error) {
	if actor == nil || actor.Role != model.RoleAdmin {
		return []model.Message{}, nil
	}
	return s.messages, nil
}

func (s *stubMessageService) MarkRead(_ context.Context, _ model.Principal, id int64) (*model.Message, error) {
	return &model.Message{ID: id, Read: true}, nil
}

type stubFavoriteService struct {
	service.FavoriteService
	mu    sync.Mutex
	added []int64
	err   error
}

func (s *stubFavoriteService) AddFavorite(_ context.Context, _ model.Principal, carID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, carID)
	return s.err
}

func (s *stubFavoriteService) IsFavorite(_ context.Context, _ model.Principal, carID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.added {
		if id == carID {
			return true, nil
		}
	}
	return false, nil
}

type stubAdminService struct {
	service.AdminService
	stats *model.AdminStats
	err   error
}

func (s *stubAdminService) Stats(_ context.Context, _ model.Principal) (*model.AdminStats, error) {
	return s.stats, s.err
}

func (s *stubAdminService) DeleteUser(_ context.Context, _ model.Principal, _ int64) error {
	return s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(_ context.Context) error { return p.err }
