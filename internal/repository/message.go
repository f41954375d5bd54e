package repository

import (
	"context"

	"transit/internal/domain"
)

// MessageRepository defines the persistence operations for messages.
type MessageRepository interface {
	// Create persists a new message.
	Create(ctx context.Context, msg *domain.Message) error

	// ListForUser retrieves messages addressed to the user plus broadcasts,
	// newest first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Message, error)

	// MarkRead flags a message as read.
	MarkRead(ctx context.Context, id string) error
}
