package fieldstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	// DefaultBatchSize is the number of fields to buffer before flushing to the database.
	DefaultBatchSize = 16
)

type pendingField struct {
	field *field.Scalar
	name  string
	seed  int64
}

// Writer writes fields to a SQLite store.
type Writer struct {
	db        *sql.DB
	logger    *slog.Logger
	path      string
	batch     []pendingField
	batchSize int
	mu        sync.Mutex
}

// New creates a store writer.
// The database is created if it doesn't exist, and the schema is initialized.
func New(path string, metadata Metadata, logger *slog.Logger) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := insertMetadata(db, metadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert metadata: %w", err)
	}

	return &Writer{
		db:        db,
		logger:    logger,
		path:      path,
		batch:     make([]pendingField, 0, DefaultBatchSize),
		batchSize: DefaultBatchSize,
	}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS metadata (
			name TEXT NOT NULL,
			value TEXT
		);

		CREATE TABLE IF NOT EXISTS fields (
			name TEXT NOT NULL,
			seed INTEGER NOT NULL,
			size INTEGER NOT NULL,
			data BLOB NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS field_index ON fields (name, seed, size);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func insertMetadata(db *sql.DB, meta Metadata) error {
	if _, err := db.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}

	stmt, err := db.Prepare("INSERT INTO metadata (name, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer stmt.Close()

	for key, value := range meta.ToMap() {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", key, err)
		}
	}
	return nil
}

// WriteField adds a field to the batch. When the batch is full, it is automatically flushed.
// A field with the same name, seed and size replaces the stored one.
func (w *Writer) WriteField(name string, seed int64, f *field.Scalar) error {
	if name == "" {
		return fmt.Errorf("%w: field name is empty", field.ErrInvalidConfig)
	}
	if f == nil {
		return fmt.Errorf("%w: field %s is nil", field.ErrInvalidConfig, name)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.batch = append(w.batch, pendingField{name: name, seed: seed, field: f})
	if len(w.batch) >= w.batchSize {
		return w.flushLocked()
	}
	return nil
}

// Flush writes any buffered fields to the database.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

// flushLocked writes buffered fields to the database. Must be called with lock held.
func (w *Writer) flushLocked() error {
	if len(w.batch) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO fields (name, seed, size, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range w.batch {
		data, err := encodeField(p.field)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", p.name, err)
		}
		if _, err := stmt.Exec(p.name, p.seed, p.field.Size(), data); err != nil {
			return fmt.Errorf("failed to insert field %s: %w", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.log().Debug("Flushed fields", "count", len(w.batch), "path", w.path)
	w.batch = w.batch[:0]
	return nil
}

// Close flushes any remaining fields and closes the database.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.db.Close()
		return err
	}
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (w *Writer) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.Default()
}
