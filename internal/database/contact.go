package database

import (
	"fmt"

	"aifinverse-backend/internal/types"
)

// InsertContactMessage stores a contact-us submission.
func InsertContactMessage(name, email, subject, message string) error {
	query := `
	INSERT INTO contact_messages (name, email, subject, message)
	VALUES (?, ?, ?, ?);`

	_, err := DB.Exec(query, name, email, subject, message)
	if err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	return nil
}

// GetContactMessages fetches all stored submissions, newest first.
func GetContactMessages() ([]types.ContactMessage, error) {
	query := `SELECT id, name, email, subject, message, created_at FROM contact_messages ORDER BY id DESC;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []types.ContactMessage
	for rows.Next() {
		var m types.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}
