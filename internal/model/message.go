package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Message is a contact request left by a visitor.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	Phone     string    `json:"phone"`
	CarID     *int64    `json:"car_id"` // nil once the car is deleted
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMessageRequest is the public contact form. Read and created_at are not accepted.
type CreateMessageRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=200"`
	Body    string `json:"message" binding:"required"`
	Phone   string `json:"phone" binding:"max=20"`
	CarID   *int64 `json:"car_id"`
}

// UpdateMessageRequest is an admin partial edit of a message.
type UpdateMessageRequest struct {
	Name    *string    `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Email   *string    `json:"email,omitempty" binding:"omitempty,email"`
	Subject *string    `json:"subject,omitempty" binding:"omitempty,max=200"`
	Body    *string    `json:"message,omitempty" binding:"omitempty,min=1"`
	Phone   *string    `json:"phone,omitempty" binding:"omitempty,max=20"`
	CarID   OptionalID `json:"car_id"`
}

// OptionalID is a nullable id field that remembers whether it was sent at all,
// so a partial update can tell "leave as is" from an explicit null.
type OptionalID struct {
	Set   bool
	Value *int64
}

// SetID returns an OptionalID carrying id.
func SetID(id int64) OptionalID {
	return OptionalID{Set: true, Value: &id}
}

// ClearID returns an OptionalID carrying an explicit null.
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}
