package database

import (
	"database/sql"
	"fmt"
)

// SaveLinkCode stores a one-shot deep-link code for telegram account linking.
func SaveLinkCode(code, email string) error {
	query := `
	INSERT INTO link_codes (code, email) VALUES (?, ?)
	ON CONFLICT(code) DO UPDATE SET email = excluded.email;`

	_, err := DB.Exec(query, code, email)
	if err != nil {
		return fmt.Errorf("failed to save link code: %w", err)
	}
	return nil
}

// ConsumeLinkCode resolves a code to an email and deletes it.
func ConsumeLinkCode(code string) (string, error) {
	var email string
	err := DB.QueryRow(`SELECT email FROM link_codes WHERE code = ?;`, code).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to look up link code: %w", err)
	}

	if _, err := DB.Exec(`DELETE FROM link_codes WHERE code = ?;`, code); err != nil {
		return "", fmt.Errorf("failed to consume link code: %w", err)
	}
	return email, nil
}

// LinkChat binds a telegram chat to an account.
func LinkChat(chatID int64, email string) error {
	query := `
	INSERT INTO chat_links (chat_id, email) VALUES (?, ?)
	ON CONFLICT(chat_id) DO UPDATE SET email = excluded.email;`

	_, err := DB.Exec(query, chatID, email)
	if err != nil {
		return fmt.Errorf("failed to link chat: %w", err)
	}
	return nil
}

// GetChatEmail resolves a chat to its linked account, "" when unlinked.
func GetChatEmail(chatID int64) (string, error) {
	var email string
	err := DB.QueryRow(`SELECT email FROM chat_links WHERE chat_id = ?;`, chatID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to look up chat link: %w", err)
	}
	return email, nil
}

// GetChatsByEmail fetches every chat linked to an account.
func GetChatsByEmail(email string) ([]int64, error) {
	rows, err := DB.Query(`SELECT chat_id FROM chat_links WHERE email = ?;`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat links for %s: %w", email, err)
	}
	defer rows.Close()

	var chats []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		chats = append(chats, id)
	}
	return chats, nil
}
