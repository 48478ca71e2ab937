package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrRecordNotFound is returned when the results table has no row with the requested id.
var ErrRecordNotFound = errors.New("record not found")

// LoadRecord reads one entry from the results(id, record) table of a SQLite
// database. The record column holds the entry as JSON.
func LoadRecord(ctx context.Context, dbPath, id string) (map[string]any, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	var raw string
	err = db.QueryRowContext(ctx, "SELECT record FROM results WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query record %s: %w", id, err)
	}

	doc, err := parseJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	return doc, nil
}
