// Package db stores exported snippets in a standalone SQLite file and reads
// them back.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hpungsan/atext2csv/internal/errors"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init creates (or opens) the SQLite export file at path and brings its schema
// up to date. The file uses a rollback journal so it is a single portable file
// once closed.
func Init(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyJournalMode(db, "delete"); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Open opens an existing export file for reading. It fails with
// FILE_NOT_FOUND when path does not exist and INVALID_STRUCTURE when the file
// was not written by this tool.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=query_only(1)")
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	version, err := GetUserVersion(db)
	if err != nil {
		db.Close()
		return nil, errors.NewInvalidStructure(fmt.Sprintf("%s is not a SQLite database", path))
	}
	if version < 1 || version > CurrentSchemaVersion {
		db.Close()
		return nil, errors.NewInvalidStructure(fmt.Sprintf("%s has unsupported schema version %d", path, version))
	}

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS exports (
		  id            TEXT PRIMARY KEY,
		  source        TEXT NOT NULL,
		  snippet_count INTEGER NOT NULL,
		  exported_at   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS snippets (
		  export_id    TEXT NOT NULL REFERENCES exports(id),
		  position     INTEGER NOT NULL,
		  trigger      TEXT NOT NULL,
		  content      TEXT NOT NULL,
		  rich_content TEXT NOT NULL,
		  type         TEXT NOT NULL,
		  type_label   TEXT NOT NULL,
		  name         TEXT NOT NULL,
		  group_name   TEXT NOT NULL,
		  hotkey       TEXT NOT NULL,
		  tags         TEXT NOT NULL,
		  uuid         TEXT NOT NULL,
		  created      TEXT NOT NULL,
		  modified     TEXT NOT NULL,
		  PRIMARY KEY (export_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_snippets_trigger
		ON snippets(trigger);

		CREATE INDEX IF NOT EXISTS idx_snippets_group
		ON snippets(export_id, group_name);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

func verifyJournalMode(db *sql.DB, want string) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != want {
		return fmt.Errorf("expected %s journal mode, got %s", want, journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
