package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"transit/internal/domain"
	"transit/internal/repository"
)

// MessageService handles office notices to passengers and drivers.
type MessageService struct {
	messageRepo repository.MessageRepository
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// SendMessageRequest contains the parameters for sending a message.
type SendMessageRequest struct {
	Actor       domain.Actor
	RecipientID string // empty for broadcasts
	Body        string
}

// SendMessage sends a direct notice or, when no recipient is given, a
// broadcast. Office only.
func (s *MessageService) SendMessage(ctx context.Context, req SendMessageRequest) (*domain.Message, error) {
	if !req.Actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}
	if req.Body == "" {
		return nil, ErrInvalidReply
	}

	msgType := domain.MessageTypeDirect
	if req.RecipientID == "" {
		msgType = domain.MessageTypeBroadcast
	}

	msg := &domain.Message{
		ID:          uuid.New().String(),
		SenderID:    req.Actor.UserID,
		RecipientID: req.RecipientID,
		Type:        msgType,
		Body:        req.Body,
		CreatedAt:   time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// ListMessages retrieves a user's inbox. Users read their own; office
// staff may read anyone's.
func (s *MessageService) ListMessages(ctx context.Context, actor domain.Actor, userID string) ([]*domain.Message, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.Is(domain.RoleOffice) {
		return nil, ErrNotAllowed
	}

	return s.messageRepo.ListForUser(ctx, userID)
}

// MarkMessageRead flags a message as read.
func (s *MessageService) MarkMessageRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return ErrInvalidMessageID
	}

	return s.messageRepo.MarkRead(ctx, messageID)
}
