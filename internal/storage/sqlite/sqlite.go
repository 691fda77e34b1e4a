// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/academypay/internal/persistence"
	"github.com/mmynk/academypay/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// pageSize is SQLite's default page size, used to turn a byte quota into a
// page limit.
const pageSize = 4096

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

type options struct {
	quotaBytes int64
}

// Option configures New.
type Option func(*options)

// WithQuota caps the database file at roughly n bytes. Writes that would grow
// it further fail with persistence.ErrCapacityExceeded. Zero means no cap.
func WithQuota(n int64) Option {
	return func(o *options) { o.quotaBytes = n }
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if o.quotaBytes > 0 {
		pages := o.quotaBytes / pageSize
		if pages < 1 {
			pages = 1
		}
		q.Add("_pragma", fmt.Sprintf("max_page_count(%d)", pages))
	}

	db, err := sql.Open("sqlite", dbPath+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("SQLite store opened", "path", dbPath, "quota_bytes", o.quotaBytes)
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// classifyError maps a full database onto persistence.ErrCapacityExceeded.
func classifyError(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_FULL {
		return fmt.Errorf("%w: %v", persistence.ErrCapacityExceeded, err)
	}
	return err
}
