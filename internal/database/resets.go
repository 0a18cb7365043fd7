package database

import (
	"database/sql"
	"fmt"
)

// SaveOTP stores a password-reset code, replacing any earlier one.
func SaveOTP(email, otp string, expiresAt int64) error {
	query := `
	INSERT INTO password_resets (email, otp, expires_at, verified)
	VALUES (?, ?, ?, 0)
	ON CONFLICT(email) DO UPDATE SET otp = excluded.otp, expires_at = excluded.expires_at, verified = 0;`

	_, err := DB.Exec(query, email, otp, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

// GetOTP fetches the pending reset code and its state.
func GetOTP(email string) (otp string, expiresAt int64, verified bool, err error) {
	var v int
	err = DB.QueryRow(`SELECT otp, expires_at, verified FROM password_resets WHERE email = ?;`, email).
		Scan(&otp, &expiresAt, &v)
	if err == sql.ErrNoRows {
		return "", 0, false, nil
	} else if err != nil {
		return "", 0, false, fmt.Errorf("failed to get otp: %w", err)
	}
	return otp, expiresAt, v != 0, nil
}

// MarkOTPVerified flips the verified flag after a correct /verify-otp.
func MarkOTPVerified(email string) error {
	_, err := DB.Exec(`UPDATE password_resets SET verified = 1 WHERE email = ?;`, email)
	if err != nil {
		return fmt.Errorf("failed to mark otp verified: %w", err)
	}
	return nil
}

// DeleteOTP removes the reset row once the password has been changed.
func DeleteOTP(email string) error {
	_, err := DB.Exec(`DELETE FROM password_resets WHERE email = ?;`, email)
	if err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}
