package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes checked by the repositories.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	// ErrCarReference is returned when a write references a car that does not exist.
	ErrCarReference = errors.New("referenced car does not exist")
	// ErrUserReference is returned when a write references a deleted account.
	ErrUserReference = errors.New("referenced user does not exist")
)

// Foreign keys named by PostgreSQL's default <table>_<column>_fkey convention.
const (
	fkMessageCar   = "messages_car_id_fkey"
	fkFavoriteCar  = "user_favorites_car_id_fkey"
	fkFavoriteUser = "user_favorites_user_id_fkey"
)

// DB is the query surface shared by *pgxpool.Pool and pgxmock pools.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func pgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

// referenceError maps a foreign key violation to the sentinel of the missing
// row, or returns nil when err is not one we know.
func referenceError(err error) error {
	code, constraint, ok := pgErrorCode(err)
	if !ok || code != pgForeignKeyViolation {
		return nil
	}
	switch constraint {
	case fkMessageCar, fkFavoriteCar:
		return ErrCarReference
	case fkFavoriteUser:
		return ErrUserReference
	default:
		return nil
	}
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE wildcards in s escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
