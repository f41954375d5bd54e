package postgres

import (
	"context"
	"database/sql"

	"transit/internal/domain"
	"transit/internal/repository"
)

// MessageRepository is a PostgreSQL implementation of repository.MessageRepository.
type MessageRepository struct {
	q Querier
}

// NewMessageRepository creates a new PostgreSQL message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{q: db}
}

// Create persists a new message.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO mensajes (id, remitente_id, destinatario_id, tipo, mensaje, leido, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		msg.ID,
		msg.SenderID,
		nullString(msg.RecipientID),
		msg.Type,
		msg.Body,
		msg.Read,
		msg.CreatedAt,
	)

	return err
}

// ListForUser retrieves messages addressed to the user plus broadcasts, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	query := `
		SELECT id, remitente_id, destinatario_id, tipo, mensaje, leido, created_at
		FROM mensajes
		WHERE destinatario_id = $1 OR destinatario_id IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var msg domain.Message
		var recipient sql.NullString

		if err := rows.Scan(&msg.ID, &msg.SenderID, &recipient, &msg.Type, &msg.Body, &msg.Read, &msg.CreatedAt); err != nil {
			return nil, err
		}

		msg.RecipientID = recipient.String
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// MarkRead flags a message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE mensajes SET leido = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure MessageRepository implements repository.MessageRepository.
var _ repository.MessageRepository = (*MessageRepository)(nil)
