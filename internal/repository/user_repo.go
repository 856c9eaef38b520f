package repository

import (
	"context"
	"errors"
	"fmt"

	"car_dealership/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteNonAdmin(ctx context.Context, id int64) (bool, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.name, u.phone, u.address, u.role, u.date_joined,
	ARRAY(SELECT f.car_id FROM user_favorites f WHERE f.user_id = u.id ORDER BY f.car_id) AS favorites`

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name,
		&user.Phone, &user.Address, &role, &user.DateJoined, &user.Favorites); err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	if user.Favorites == nil {
		user.Favorites = []int64{}
	}
	return user, nil
}

// uniqueViolation translates unique constraint failures on users into domain errors.
func uniqueViolation(err error) error {
	code, constraint, ok := pgErrorCode(err)
	if !ok || code != pgUniqueViolation {
		return nil
	}
	switch constraint {
	case "users_username_key":
		return ErrDuplicateUsername
	case "users_email_key":
		return ErrDuplicateEmail
	}
	return nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, name, phone, address, role)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, date_joined`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, user.Name,
		user.Phone, user.Address, string(user.Role)).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if user.Favorites == nil {
		user.Favorites = []int64{}
	}
	return nil
}

// FindByEmail retrieves a user by email; a missing user yields (nil, nil)
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID; a missing user yields (nil, nil)
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// List returns every user, newest first
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users u ORDER BY u.date_joined DESC, u.id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update writes the editable profile fields of user
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET username = $1, email = $2, name = $3, phone = $4, address = $5
            WHERE id = $6`
	cmdTag, err := r.db.Exec(ctx, sql, user.Username, user.Email, user.Name, user.Phone, user.Address, user.ID)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found for update", user.ID)
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found for password update", id)
	}
	return nil
}

// DeleteNonAdmin removes a CLIENT account. It reports false when no such row exists;
// admin rows are never matched.
func (r *userRepository) DeleteNonAdmin(ctx context.Context, id int64) (bool, error) {
	sql := `DELETE FROM users WHERE id = $1 AND role <> 'ADMIN'`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
