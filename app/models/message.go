package models

import "time"

// Message is a tenant-scoped message between two users (e.g. an admin
// notifying a parent about an outstanding balance).
type Message struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Subject     string     `json:"subject" validate:"required"`
	Body        string     `json:"body" validate:"required"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	SenderName string `json:"sender_name,omitempty"`
}
