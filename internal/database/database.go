package database

import (
	"database/sql"
	"fmt"
	"log"
)

var DB *sql.DB

func InitDB(dbPath string) error {
	var err error
	DB, err = sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		plan TEXT NOT NULL DEFAULT '',
		registration_complete INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = DB.Exec(createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		redirect_after_login TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = DB.Exec(createSessionsTable); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}

	createProfilesTable := `
	CREATE TABLE IF NOT EXISTS profiles (
		email TEXT PRIMARY KEY,
		profile TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = DB.Exec(createProfilesTable); err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}

	createLockedRedirectsTable := `
	CREATE TABLE IF NOT EXISTS locked_redirects (
		email TEXT PRIMARY KEY,
		market TEXT NOT NULL,
		original_path TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);`
	if _, err = DB.Exec(createLockedRedirectsTable); err != nil {
		return fmt.Errorf("failed to create locked_redirects table: %w", err)
	}

	createPasswordResetsTable := `
	CREATE TABLE IF NOT EXISTS password_resets (
		email TEXT PRIMARY KEY,
		otp TEXT NOT NULL,
		expires_at INTEGER NOT NULL,
		verified INTEGER NOT NULL DEFAULT 0
	);`
	if _, err = DB.Exec(createPasswordResetsTable); err != nil {
		return fmt.Errorf("failed to create password_resets table: %w", err)
	}

	createContactTable := `
	CREATE TABLE IF NOT EXISTS contact_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = DB.Exec(createContactTable); err != nil {
		return fmt.Errorf("failed to create contact_messages table: %w", err)
	}

	createChatLinksTable := `
	CREATE TABLE IF NOT EXISTS chat_links (
		chat_id INTEGER PRIMARY KEY,
		email TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = DB.Exec(createChatLinksTable); err != nil {
		return fmt.Errorf("failed to create chat_links table: %w", err)
	}

	createLinkCodesTable := `
	CREATE TABLE IF NOT EXISTS link_codes (
		code TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = DB.Exec(createLinkCodesTable); err != nil {
		return fmt.Errorf("failed to create link_codes table: %w", err)
	}

	createMetricsTable := `
		CREATE TABLE IF NOT EXISTS metrics (
		metric_name TEXT NOT NULL,
		label_key TEXT DEFAULT NULL,
		label_value TEXT DEFAULT NULL,
		metric_value REAL NOT NULL,
		PRIMARY KEY (metric_name, label_key, label_value)
	);`
	if _, err = DB.Exec(createMetricsTable); err != nil {
		return fmt.Errorf("failed to create metrics table: %w", err)
	}

	log.Println("Database initialized successfully.")
	return nil
}

func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
