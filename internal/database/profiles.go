package database

import (
	"database/sql"
	"fmt"

	"aifinverse-backend/internal/types"
)

// SaveProfile re-serializes the whole profile blob, last write wins.
func SaveProfile(email, profileJSON string) error {
	query := `
	INSERT INTO profiles (email, profile, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(email) DO UPDATE SET profile = excluded.profile, updated_at = CURRENT_TIMESTAMP;`

	_, err := DB.Exec(query, email, profileJSON)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile fetches the raw profile blob, "" when none is stored.
func GetProfile(email string) (string, error) {
	var raw string
	err := DB.QueryRow(`SELECT profile FROM profiles WHERE email = ?;`, email).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	return raw, nil
}

// DeleteProfile removes the profile blob and any pending locked redirect.
func DeleteProfile(email string) error {
	if _, err := DB.Exec(`DELETE FROM profiles WHERE email = ?;`, email); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if _, err := DB.Exec(`DELETE FROM locked_redirects WHERE email = ?;`, email); err != nil {
		return fmt.Errorf("failed to delete locked redirect: %w", err)
	}
	return nil
}

// SaveLockedRedirect records where a user was headed before a locked market stopped them.
func SaveLockedRedirect(email string, r types.LockedRedirect) error {
	query := `
	INSERT INTO locked_redirects (email, market, original_path, timestamp)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(email) DO UPDATE SET
		market = excluded.market,
		original_path = excluded.original_path,
		timestamp = excluded.timestamp;`

	_, err := DB.Exec(query, email, r.Market, r.OriginalPath, r.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save locked redirect: %w", err)
	}
	return nil
}

// GetLockedRedirect fetches the pending redirect, nil when none exists.
func GetLockedRedirect(email string) (*types.LockedRedirect, error) {
	query := `SELECT market, original_path, timestamp FROM locked_redirects WHERE email = ?;`

	var r types.LockedRedirect
	err := DB.QueryRow(query, email).Scan(&r.Market, &r.OriginalPath, &r.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get locked redirect: %w", err)
	}
	return &r, nil
}

// DeleteLockedRedirect clears the pending redirect.
func DeleteLockedRedirect(email string) error {
	_, err := DB.Exec(`DELETE FROM locked_redirects WHERE email = ?;`, email)
	if err != nil {
		return fmt.Errorf("failed to delete locked redirect: %w", err)
	}
	return nil
}
