package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"pharmapos/domain"
)

// EnsureAdmin creates the admin account when no user with that name exists.
// An existing account is left untouched.
func EnsureAdmin(db *sqlx.DB, username, password string) error {
	var id int64
	err := db.Get(&id, `SELECT id FROM users WHERE username = ?`, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`, username, string(hashed), domain.RoleAdmin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("created admin user %q", username)
	return nil
}
