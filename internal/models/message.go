package models

import "time"

// Message is a direct message between two users.
type Message struct {
	ID              string    `db:"id" json:"id"`
	SenderID        string    `db:"sender_id" json:"sender_id"`
	ReceiverID      string    `db:"receiver_id" json:"receiver_id"`
	Subject         string    `db:"subject" json:"subject"`
	Content         string    `db:"content" json:"content"`
	Read            bool      `db:"read" json:"read"`
	ParentMessageID *string   `db:"parent_message_id" json:"parent_message_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// MessageDetail joins sender and receiver names.
type MessageDetail struct {
	Message
	SenderName    string `db:"sender_name" json:"sender_name"`
	SenderEmail   string `db:"sender_email" json:"sender_email"`
	ReceiverName  string `db:"receiver_name" json:"receiver_name"`
	ReceiverEmail string `db:"receiver_email" json:"receiver_email"`
}

// MessageBox selects inbox or sent listings.
type MessageBox string

const (
	BoxInbox MessageBox = "inbox"
	BoxSent  MessageBox = "sent"
)
