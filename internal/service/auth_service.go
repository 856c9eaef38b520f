package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"car_dealership/internal/config"
	"car_dealership/internal/model"
	"car_dealership/internal/repository"
	"car_dealership/internal/utils"
)

// AuthService provides authentication and self-service profile operations
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error)
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, actor model.Principal) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Principal, req model.UpdateUserRequest) (*model.User, error)
	ChangePassword(ctx context.Context, actor model.Principal, req model.ChangePasswordRequest) error
	EnsureAdmin(ctx context.Context, admin config.InitialAdmin) (bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	// dummyHash is compared against when the email is unknown so both login failures cost the same.
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	dummy, err := utils.HashPassword("dummy-password-for-timing")
	if err != nil {
		log.Printf("WARN: could not prepare dummy password hash: %v", err)
	}
	return &authService{
		userRepo:  userRepo,
		jwtUtil:   jwtUtil,
		dummyHash: dummy,
	}
}

// Register creates a CLIENT account and signs it in
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	if req.Password != req.PasswordConfirm {
		return nil, newValidationError("password_confirm", "passwords do not match")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, newValidationError("username", "this field may not be blank")
	}
	if err := utils.ValidatePassword(req.Password, username); err != nil {
		return nil, newValidationError("password", err.Error())
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        utils.NormalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         model.RoleClient,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if verr := duplicateUserError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return s.issue(user)
}

// Login authenticates by email and password. Unknown email and wrong password
// both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		fields := map[string]string{}
		if strings.TrimSpace(email) == "" {
			fields["email"] = "this field is required"
		}
		if password == "" {
			fields["password"] = "this field is required"
		}
		return nil, &ValidationError{Fields: fields}
	}

	user, err := s.userRepo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		utils.CheckPasswordHash(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*model.AuthResult, error) {
	access, err := s.jwtUtil.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtUtil.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token carrying the user's current role
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtUtil.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load user for refresh: %w", err)
	}
	if user == nil {
		return "", ErrUnauthorized
	}
	access, err := s.jwtUtil.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, nil
}

func (s *authService) Me(ctx context.Context, actor model.Principal) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor model.Principal, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	return saveUserUpdate(ctx, s.userRepo, user, req)
}

// ChangePassword verifies the old password and stores the hash of the new one
func (s *authService) ChangePassword(ctx context.Context, actor model.Principal, req model.ChangePasswordRequest) error {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return newValidationError("old_password", "current password is incorrect")
	}
	if err := utils.ValidatePassword(req.NewPassword, user.Username); err != nil {
		return newValidationError("new_password", err.Error())
	}
	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap ADMIN account unless its email is already registered.
func (s *authService) EnsureAdmin(ctx context.Context, admin config.InitialAdmin) (bool, error) {
	email := utils.NormalizeEmail(admin.Email)
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up initial admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}
	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	user := &model.User{
		Username:     admin.Username,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create initial admin: %w", err)
	}
	log.Printf("INFO: initial admin %s (ID: %d) created", user.Email, user.ID)
	return true, nil
}

func duplicateUserError(err error) *ValidationError {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return newValidationError("username", "a user with that username already exists")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return newValidationError("email", "a user with that email already exists")
	}
	return nil
}

// saveUserUpdate applies a partial profile update to user and persists it.
func saveUserUpdate(ctx context.Context, repo repository.UserRepository, user *model.User, req model.UpdateUserRequest) (*model.User, error) {
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, newValidationError("username", "this field may not be blank")
		}
		user.Username = username
	}
	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		if email == "" {
			return nil, newValidationError("email", "this field may not be blank")
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = strings.TrimSpace(*req.Address)
	}

	if err := repo.Update(ctx, user); err != nil {
		if verr := duplicateUserError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
