package dedup

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mediamon/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the database to adopt the new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLiteStore is the durable Store implementation backed by SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	claims *claimSet
}

var _ Store = (*SQLiteStore)(nil)

// Open initializes or connects to the processed-files database at the
// configured location and verifies its schema.
func Open(cfg *config.Config) (*SQLiteStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath connects to the processed-files database at an explicit location.
func OpenPath(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: dbPath, claims: newClaimSet()}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// IsProcessed reports whether a durable record exists for path.
func (s *SQLiteStore) IsProcessed(ctx context.Context, path string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, `SELECT path FROM processed_files WHERE path = ?`, path).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query processed: %w", err)
	}
	return true, nil
}

// Claim takes the in-progress marker for path. The claim set serializes
// same-path callers, so the record check below cannot race with a concurrent
// MarkProcessed for the same path.
func (s *SQLiteStore) Claim(ctx context.Context, path string) (bool, error) {
	if !s.claims.take(path) {
		return false, nil
	}
	processed, err := s.IsProcessed(ctx, path)
	if err != nil {
		s.claims.release(path)
		return false, err
	}
	if processed {
		s.claims.release(path)
		return false, nil
	}
	return true, nil
}

// Release abandons a claim without writing a record.
func (s *SQLiteStore) Release(path string) {
	s.claims.release(path)
}

// MarkProcessed upserts the record for path and releases its claim.
func (s *SQLiteStore) MarkProcessed(ctx context.Context, path, status string, size int64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO processed_files (path, status, size, processed_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             status = excluded.status,
             size = excluded.size,
             processed_at = excluded.processed_at`,
		path,
		status,
		size,
		now,
	)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	s.claims.release(path)
	return nil
}

// Record returns the stored record for path, or nil when absent.
func (s *SQLiteStore) Record(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT path, status, size, processed_at FROM processed_files WHERE path = ?`,
		path,
	)

	var (
		rec          Record
		processedRaw string
	)
	err := row.Scan(&rec.Path, &rec.Status, &rec.Size, &processedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if parsed, parseErr := time.Parse(time.RFC3339Nano, processedRaw); parseErr == nil {
		rec.ProcessedAt = parsed
	}
	return &rec, nil
}

// Stats returns the total count and a count grouped by status string.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM processed_files GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("dedup stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
