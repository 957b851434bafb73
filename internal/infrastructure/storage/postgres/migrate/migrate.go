// Package migrate applies the embedded schema migrations.
package migrate

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Run executes all pending goose migrations.
func Run(db *sql.DB) error {
	goose.SetBaseFS(EmbedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
