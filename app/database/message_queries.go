package database

import (
	"database/sql"

	"zawadi-schools/app/models"
)

// SendMessage stores a message between two users of the same tenant. The
// recipient must exist in the tenant or the insert fails.
func SendMessage(db *sql.DB, m *models.Message) error {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE tenant_id = $1 AND id = $2 AND is_active = true AND deleted_at IS NULL)`,
		m.TenantID, m.RecipientID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}

	query := `INSERT INTO messages (tenant_id, sender_id, recipient_id, subject, body)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`
	return db.QueryRow(query, m.TenantID, m.SenderID, m.RecipientID, m.Subject, m.Body).
		Scan(&m.ID, &m.CreatedAt)
}

// GetInbox returns a user's received messages, newest first.
func GetInbox(db *sql.DB, tenantID, userID string, unreadOnly bool) ([]*models.Message, error) {
	query := `SELECT m.id, m.tenant_id, m.sender_id, m.recipient_id, m.subject, m.body, m.read_at, m.created_at,
			u.first_name || ' ' || u.last_name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.tenant_id = $1 AND m.recipient_id = $2`
	if unreadOnly {
		query += ` AND m.read_at IS NULL`
	}
	query += ` ORDER BY m.created_at DESC`

	rows, err := db.Query(query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.TenantID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &readAt, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			m.ReadAt = &t
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkMessageRead stamps a message as read by its recipient.
func MarkMessageRead(db *sql.DB, tenantID, userID, messageID string) error {
	res, err := db.Exec(`UPDATE messages SET read_at = NOW()
						 WHERE tenant_id = $1 AND recipient_id = $2 AND id = $3 AND read_at IS NULL`,
		tenantID, userID, messageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
