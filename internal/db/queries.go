package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
)

// ExportRun describes one batch of snippets written to the database.
type ExportRun struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Count      int    `json:"snippet_count"`
	ExportedAt int64  `json:"exported_at"`
}

// InsertExport stores records as a new export run in a single transaction and
// returns the run. Record order is kept in the position column.
func InsertExport(ctx context.Context, db *sql.DB, source string, records []snippet.Record, now time.Time) (*ExportRun, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	run := &ExportRun{
		ID:         id.String(),
		Source:     source,
		Count:      len(records),
		ExportedAt: now.Unix(),
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exports (id, source, snippet_count, exported_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, run.Count, run.ExportedAt,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snippets (
			export_id, position, trigger, content, rich_content, type, type_label,
			name, group_name, hotkey, tags, uuid, created, modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			run.ID, i, r.Trigger, r.Content, r.RichContent, r.Type, r.TypeLabel,
			r.Name, r.Group, r.Hotkey, r.Tags, r.UUID, r.Created, r.Modified,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return run, nil
}

// LatestExport returns the most recent export run.
func LatestExport(ctx context.Context, db *sql.DB) (*ExportRun, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, source, snippet_count, exported_at
		FROM exports
		ORDER BY rowid DESC
		LIMIT 1
	`)

	var run ExportRun
	err := row.Scan(&run.ID, &run.Source, &run.Count, &run.ExportedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewInvalidStructure("database contains no exports")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &run, nil
}

// ListSnippets returns the records of the given export run in their original
// order.
func ListSnippets(ctx context.Context, db *sql.DB, exportID string) ([]snippet.Record, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT trigger, content, rich_content, type, type_label,
			name, group_name, hotkey, tags, uuid, created, modified
		FROM snippets
		WHERE export_id = ?
		ORDER BY position
	`, exportID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := []snippet.Record{}
	for rows.Next() {
		var r snippet.Record
		err := rows.Scan(
			&r.Trigger, &r.Content, &r.RichContent, &r.Type, &r.TypeLabel,
			&r.Name, &r.Group, &r.Hotkey, &r.Tags, &r.UUID, &r.Created, &r.Modified,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// ReadLatest opens path and returns the records of its most recent export.
func ReadLatest(ctx context.Context, path string) ([]snippet.Record, *ExportRun, error) {
	db, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	run, err := LatestExport(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	records, err := ListSnippets(ctx, db, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return records, run, nil
}
