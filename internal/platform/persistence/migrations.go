package persistence

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migration target
	_ "github.com/golang-migrate/migrate/v4/source/file"       // migration source
)

// RunMigrations brings the ledger schema up to date before the server starts
// taking requests. migrationsPath is a plain directory path such as
// ./migrations/postgres; an already-current schema is not an error.
func RunMigrations(databaseURL string, migrationsPath string) error {
	if databaseURL == "" {
		return errors.New("database URL cannot be empty")
	}
	if migrationsPath == "" {
		return errors.New("migrations path cannot be empty")
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration source %q: %w", migrationsPath, err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate ledger schema: %w", err)
	}

	if sourceErr, dbErr := m.Close(); sourceErr != nil {
		return fmt.Errorf("migration source close: %w", sourceErr)
	} else if dbErr != nil {
		return fmt.Errorf("migration database close: %w", dbErr)
	}

	return nil
}
