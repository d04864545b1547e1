package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver (CGO), registered as "sqlite3"
	_ "modernc.org/sqlite"          // SQLite driver (pure Go, no CGO), registered as "sqlite"
)

// Supported database/sql driver names.
const (
	DriverPureGo = "sqlite"
	DriverCGO    = "sqlite3"
)

// Open opens a SQLite database connection with the given driver and
// initializes the schema. The database file will be created if it doesn't
// exist. An empty driver selects the pure Go driver.
func Open(ctx context.Context, driver, path string) (*sql.DB, error) {
	switch driver {
	case "":
		driver = DriverPureGo
	case DriverPureGo, DriverCGO:
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want %q or %q)", driver, DriverPureGo, DriverCGO)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Initialize schema
	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
