package database

import (
	"database/sql"
	"fmt"

	"aifinverse-backend/internal/types"
)

// InsertSession stores an issued token.
func InsertSession(token, email string) error {
	query := `INSERT INTO sessions (token, email) VALUES (?, ?);`
	_, err := DB.Exec(query, token, email)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession fetches the session for a token.
func GetSession(token string) (*types.Session, error) {
	query := `SELECT token, email, redirect_after_login, created_at FROM sessions WHERE token = ?;`

	var s types.Session
	err := DB.QueryRow(query, token).Scan(&s.Token, &s.Email, &s.RedirectAfterLogin, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSessionsByEmail removes every session for an account.
func DeleteSessionsByEmail(email string) error {
	_, err := DB.Exec(`DELETE FROM sessions WHERE email = ?;`, email)
	if err != nil {
		return fmt.Errorf("failed to delete sessions for %s: %w", email, err)
	}
	return nil
}

// SetRedirectAfterLogin records the path a guard bounced the visitor from.
// When no session row exists for the token nothing is written and
// sql.ErrNoRows is returned; callers treat the hint as best effort.
func SetRedirectAfterLogin(token, path string) error {
	res, err := DB.Exec(`UPDATE sessions SET redirect_after_login = ? WHERE token = ?;`, path, token)
	if err != nil {
		return fmt.Errorf("failed to set redirect hint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
