package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"car_dealership/internal/model"
	"car_dealership/internal/repository"
	"car_dealership/internal/utils"
)

// MessageService defines contact inbox operations. Reads take an optional
// principal: anonymous callers are allowed on the routes but see nothing.
type MessageService interface {
	CreateMessage(ctx context.Context, req model.CreateMessageRequest) (*model.Message, error)
	ListMessages(ctx context.Context, actor *model.Principal) ([]model.Message, error)
	GetMessage(ctx context.Context, actor *model.Principal, id int64) (*model.Message, error)
	UpdateMessage(ctx context.Context, actor model.Principal, id int64, req model.UpdateMessageRequest) (*model.Message, error)
	MarkRead(ctx context.Context, actor model.Principal, id int64) (*model.Message, error)
	DeleteMessage(ctx context.Context, actor model.Principal, id int64) error
}

type messageService struct {
	repo repository.MessageRepository
}

// NewMessageService creates a new MessageService
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageService{repo: repo}
}

func canManageInbox(actor *model.Principal) bool {
	return actor != nil && actor.Role.Can(model.PermManageInbox)
}

func carReferenceError(err error) *ValidationError {
	if errors.Is(err, repository.ErrCarReference) {
		return newValidationError("car_id", "invalid pk - object does not exist")
	}
	return nil
}

// CreateMessage stores a visitor's message; read state and timestamp come from the server
func (s *messageService) CreateMessage(ctx context.Context, req model.CreateMessageRequest) (*model.Message, error) {
	if verr := blankFields(map[string]string{"name": req.Name, "message": req.Body}); verr != nil {
		return nil, verr
	}
	m := &model.Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   utils.NormalizeEmail(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Body:    req.Body,
		Phone:   strings.TrimSpace(req.Phone),
		CarID:   req.CarID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if verr := carReferenceError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create message in repo: %w", err)
	}
	return m, nil
}

func (s *messageService) ListMessages(ctx context.Context, actor *model.Principal) ([]model.Message, error) {
	if !canManageInbox(actor) {
		return []model.Message{}, nil
	}
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from repo: %w", err)
	}
	return messages, nil
}

// GetMessage hides the existence of messages from non-admins.
func (s *messageService) GetMessage(ctx context.Context, actor *model.Principal, id int64) (*model.Message, error) {
	if !canManageInbox(actor) {
		return nil, ErrMessageNotFound
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}
	if m == nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

func (s *messageService) UpdateMessage(ctx context.Context, actor model.Principal, id int64, req model.UpdateMessageRequest) (*model.Message, error) {
	if !actor.Role.Can(model.PermManageInbox) {
		return nil, ErrForbidden
	}
	if verr := blankFields(presentText(map[string]*string{"name": req.Name, "message": req.Body})); verr != nil {
		return nil, verr
	}
	m, err := s.GetMessage(ctx, &actor, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		m.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Subject != nil {
		m.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Body != nil {
		m.Body = *req.Body
	}
	if req.Phone != nil {
		m.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.CarID.Set {
		m.CarID = req.CarID.Value
	}
	if err := s.repo.Update(ctx, m); err != nil {
		if verr := carReferenceError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to update message in repo: %w", err)
	}
	return m, nil
}

// MarkRead flips the read flag to true. An already-read message is returned unchanged.
func (s *messageService) MarkRead(ctx context.Context, actor model.Principal, id int64) (*model.Message, error) {
	if !actor.Role.Can(model.PermManageInbox) {
		return nil, ErrForbidden
	}
	m, err := s.GetMessage(ctx, &actor, id)
	if err != nil {
		return nil, err
	}
	if m.Read {
		return m, nil
	}
	updated, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark message read in repo: %w", err)
	}
	if updated == nil {
		return nil, ErrMessageNotFound
	}
	return updated, nil
}

func (s *messageService) DeleteMessage(ctx context.Context, actor model.Principal, id int64) error {
	if !actor.Role.Can(model.PermManageInbox) {
		return ErrForbidden
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete message in repo: %w", err)
	}
	if !deleted {
		return ErrMessageNotFound
	}
	return nil
}
