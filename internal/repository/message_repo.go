package repository

import (
	"context"
	"errors"
	"fmt"

	"car_dealership/internal/model"

	"github.com/jackc/pgx/v5"
)

// MessageRepository defines operations for the contact inbox
type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	FindByID(ctx context.Context, id int64) (*model.Message, error)
	List(ctx context.Context) ([]model.Message, error)
	Update(ctx context.Context, m *model.Message) error
	MarkRead(ctx context.Context, id int64) (*model.Message, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type messageRepository struct {
	db DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db DB) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, name, email, subject, body, phone, car_id, is_read, created_at`

func scanMessage(row pgx.Row) (*model.Message, error) {
	m := &model.Message{}
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Phone, &m.CarID, &m.Read, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// Create stores a message; is_read and created_at always take their column defaults
func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	sql := `INSERT INTO messages (name, email, subject, body, phone, car_id)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, is_read, created_at`
	err := r.db.QueryRow(ctx, sql, m.Name, m.Email, m.Subject, m.Body, m.Phone, m.CarID).Scan(&m.ID, &m.Read, &m.CreatedAt)
	if err != nil {
		if ref := referenceError(err); ref != nil {
			return ref
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// FindByID retrieves a message; a missing message yields (nil, nil)
func (r *messageRepository) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	sql := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	m, err := scanMessage(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}
	return m, nil
}

// List returns all messages, newest first
func (r *messageRepository) List(ctx context.Context) ([]model.Message, error) {
	sql := `SELECT ` + messageColumns + ` FROM messages ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

// Update writes the editable fields of a message
func (r *messageRepository) Update(ctx context.Context, m *model.Message) error {
	sql := `UPDATE messages SET name = $1, email = $2, subject = $3, body = $4, phone = $5, car_id = $6
            WHERE id = $7`
	cmdTag, err := r.db.Exec(ctx, sql, m.Name, m.Email, m.Subject, m.Body, m.Phone, m.CarID, m.ID)
	if err != nil {
		if ref := referenceError(err); ref != nil {
			return ref
		}
		return fmt.Errorf("failed to update message: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("message %d not found for update", m.ID)
	}
	return nil
}

// MarkRead sets is_read and returns the updated row; (nil, nil) when the message does not exist
func (r *messageRepository) MarkRead(ctx context.Context, id int64) (*model.Message, error) {
	sql := `UPDATE messages SET is_read = TRUE WHERE id = $1 RETURNING ` + messageColumns
	m, err := scanMessage(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	return m, nil
}

// Delete removes a message
func (r *messageRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
