package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ssxwatch/internal/config"
	"ssxwatch/internal/pia"
)

// Store manages record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the archive database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens an archive database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
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

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("archive schema version %d unsupported (want %d); remove %s to rebuild", version, schemaVersion, s.path)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// AppendRecords inserts records for one watched file starting at position
// startIdx in the file's append order. Positions that already exist are
// left untouched, so replaying records after a restart is safe.
func (s *Store) AppendRecords(ctx context.Context, kind, path string, startIdx int, records []pia.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR IGNORE INTO pia_records
            (kind, path, idx, file_number, n_spots_total, n_spots_4a, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, record := range records {
		if _, err := stmt.ExecContext(ctx, kind, path, startIdx+i,
			record.FileNumber, record.SpotsTotal, record.SpotsFiltered, now); err != nil {
			return fmt.Errorf("insert record %d: %w", startIdx+i, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of archived records for one watched file.
func (s *Store) Count(ctx context.Context, kind, path string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pia_records WHERE kind = ? AND path = ?`, kind, path).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Records returns up to limit archived records for one watched file,
// starting at position from, in append order. A limit <= 0 means no limit.
func (s *Store) Records(ctx context.Context, kind, path string, from, limit int) ([]pia.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT file_number, n_spots_total, n_spots_4a
        FROM pia_records
        WHERE kind = ? AND path = ? AND idx >= ?
        ORDER BY idx
        LIMIT ?`, kind, path, from, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []pia.Record
	for rows.Next() {
		var r pia.Record
		if err := rows.Scan(&r.FileNumber, &r.SpotsTotal, &r.SpotsFiltered); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// WatchedFile summarizes one file's archived contents.
type WatchedFile struct {
	Kind      string
	Path      string
	Records   int
	UpdatedAt time.Time
}

// Files lists every (kind, path) with archived records, most recently
// updated first.
func (s *Store) Files(ctx context.Context) ([]WatchedFile, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT kind, path, COUNT(*), MAX(created_at)
        FROM pia_records
        GROUP BY kind, path
        ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []WatchedFile
	for rows.Next() {
		var f WatchedFile
		var updated string
		if err := rows.Scan(&f.Kind, &f.Path, &f.Records, &updated); err != nil {
			return nil, fmt.Errorf("scan file summary: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, updated); parseErr == nil {
			f.UpdatedAt = ts
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}
