package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const messageSelect = `SELECT m.id, m.sender_id, m.receiver_id, m.subject, m.content, m.read, m.parent_message_id, m.created_at,
su.full_name AS sender_name, su.email AS sender_email, ru.full_name AS receiver_name, ru.email AS receiver_email
FROM messages m
JOIN users su ON su.id = m.sender_id
JOIN users ru ON ru.id = m.receiver_id`

// MessageRepository persists direct messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO messages (id, sender_id, receiver_id, subject, content, read, parent_message_id, created_at)
VALUES (:id, :sender_id, :receiver_id, :subject, :content, :read, :parent_message_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// FindByID returns a message with both parties resolved.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.MessageDetail, error) {
	var msg models.MessageDetail
	if err := r.db.GetContext(ctx, &msg, messageSelect+` WHERE m.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &msg, nil
}

// List returns the user's inbox or sent box, newest first.
func (r *MessageRepository) List(ctx context.Context, userID string, box models.MessageBox) ([]models.MessageDetail, error) {
	column := "m.receiver_id"
	if box == models.BoxSent {
		column = "m.sender_id"
	}
	var msgs []models.MessageDetail
	if err := r.db.SelectContext(ctx, &msgs, messageSelect+` WHERE `+column+` = $1 ORDER BY m.created_at DESC`, userID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// MarkRead flags a message read. Only the receiver matches.
func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id = $1 AND receiver_id = $2`, id, receiverID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return expectAffected(res)
}
