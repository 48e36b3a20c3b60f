package fieldstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// ErrNotFound reports a field missing from the store.
var ErrNotFound = errors.New("field not found")

// Reader reads fields from a SQLite store.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens a store for reading.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='fields'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain fields table")
	}

	return &Reader{db: db, path: path}, nil
}

// ReadField loads one field.
func (r *Reader) ReadField(name string, seed int64, size int) (*field.Scalar, error) {
	var data []byte
	err := r.db.QueryRow(
		"SELECT data FROM fields WHERE name=? AND seed=? AND size=?",
		name, seed, size,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s seed=%d size=%d", ErrNotFound, name, seed, size)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query field: %w", err)
	}

	f, err := decodeField(size, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode field %s: %w", name, err)
	}
	return f, nil
}

// List returns every stored entry ordered by name, seed and size.
func (r *Reader) List() ([]Entry, error) {
	rows, err := r.db.Query("SELECT name, seed, size FROM fields ORDER BY name, seed, size")
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Seed, &e.Size); err != nil {
			return nil, fmt.Errorf("failed to scan field row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fields: %w", err)
	}
	return entries, nil
}

// Metadata reads the run metadata.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}
	return metadataFromMap(values), nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
