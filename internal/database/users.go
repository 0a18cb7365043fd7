package database

import (
	"database/sql"
	"fmt"

	"aifinverse-backend/internal/types"

	_ "modernc.org/sqlite"
)

// ErrUserNotFound is returned when a lookup matches no account.
var ErrUserNotFound = sql.ErrNoRows

// InsertUser creates an account row and returns its id.
func InsertUser(email, firstName, lastName, country, passwordHash string) (int64, error) {
	query := `
	INSERT INTO users (email, first_name, last_name, country, password_hash)
	VALUES (?, ?, ?, ?, ?);`

	res, err := DB.Exec(query, email, firstName, lastName, country, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return res.LastInsertId()
}

// GetUserByEmail fetches an account row.
func GetUserByEmail(email string) (*types.User, error) {
	query := `
	SELECT id, email, first_name, last_name, country, plan, registration_complete, created_at
	FROM users WHERE email = ?;`

	var u types.User
	var complete int
	err := DB.QueryRow(query, email).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Country, &u.Plan, &complete, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.RegistrationComplete = complete != 0
	return &u, nil
}

// GetPasswordHash fetches the stored hash for login verification.
func GetPasswordHash(email string) (string, error) {
	var hash string
	err := DB.QueryRow(`SELECT password_hash FROM users WHERE email = ?;`, email).Scan(&hash)
	if err != nil {
		return "", err
	}
	return hash, nil
}

// SetPasswordHash replaces the stored hash after a password reset.
func SetPasswordHash(email, hash string) error {
	res, err := DB.Exec(`UPDATE users SET password_hash = ? WHERE email = ?;`, hash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetUserPlan writes the plan column. An empty plan clears it.
func SetUserPlan(email, plan string) error {
	_, err := DB.Exec(`UPDATE users SET plan = ? WHERE email = ?;`, plan, email)
	if err != nil {
		return fmt.Errorf("failed to set plan: %w", err)
	}
	return nil
}

// SetRegistrationComplete flips the registration flag consumed by the route guard.
func SetRegistrationComplete(email string, complete bool) error {
	v := 0
	if complete {
		v = 1
	}
	_, err := DB.Exec(`UPDATE users SET registration_complete = ? WHERE email = ?;`, v, email)
	if err != nil {
		return fmt.Errorf("failed to set registration flag: %w", err)
	}
	return nil
}
