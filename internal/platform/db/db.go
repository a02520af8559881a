package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the Postgres deployment database via the pgx stdlib
// driver. Local/dev runs use SQLite instead (see cmd/server); this path
// serves cmd/dbtool and hosted deployments.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	// Dispatch is a handful of concurrent sessions at most; a small pool is
	// plenty.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
