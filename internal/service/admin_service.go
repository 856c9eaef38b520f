package service

import (
	"context"
	"fmt"

	"car_dealership/internal/model"
	"car_dealership/internal/repository"
)

// AdminService groups the dashboard and user management operations
type AdminService interface {
	Stats(ctx context.Context, actor model.Principal) (*model.AdminStats, error)
	ListUsers(ctx context.Context, actor model.Principal) ([]model.User, error)
	GetUser(ctx context.Context, actor model.Principal, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Principal, id int64, req model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.Principal, id int64) error
}

type adminService struct {
	users repository.UserRepository
	stats repository.StatsRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(users repository.UserRepository, stats repository.StatsRepository) AdminService {
	return &adminService{users: users, stats: stats}
}

func (s *adminService) Stats(ctx context.Context, actor model.Principal) (*model.AdminStats, error) {
	if !actor.Role.Can(model.PermManageUsers) {
		return nil, ErrForbidden
	}
	stats, err := s.stats.AdminStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats from repo: %w", err)
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, actor model.Principal) ([]model.User, error) {
	if !actor.Role.Can(model.PermManageUsers) {
		return nil, ErrForbidden
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users from repo: %w", err)
	}
	return users, nil
}

func (s *adminService) GetUser(ctx context.Context, actor model.Principal, id int64) (*model.User, error) {
	if !actor.Role.Can(model.PermManageUsers) {
		return nil, ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, actor model.Principal, id int64, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return saveUserUpdate(ctx, s.users, user, req)
}

// DeleteUser removes a CLIENT account; ADMIN accounts are refused.
func (s *adminService) DeleteUser(ctx context.Context, actor model.Principal, id int64) error {
	user, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		return ErrCannotDeleteAdmin
	}
	deleted, err := s.users.DeleteNonAdmin(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user in repo: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}
