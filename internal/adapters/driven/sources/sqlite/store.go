// Package sqlite provides SQLite-backed source adapters for the
// site's row-backed collections (blog posts, jobs, courses), plus the
// indexing operations the CLI uses to manage content.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/sqlite/migrations"
	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
)

// Store is the SQLite content store. One store holds every row-backed
// collection in a single records table keyed by (type, id); Source
// hands out per-type adapters over it.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sitesearch/data/content.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sitesearch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "content.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Source returns a SourceAdapter serving the given type from this store.
func (s *Store) Source(t domain.SourceType) driven.SourceAdapter {
	return &source{store: s, sourceType: t}
}

// migrate applies any pending .up.sql migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Record is a stored content row.
type Record struct {
	// Type is the collection this record belongs to.
	Type domain.SourceType

	// ID is unique within the collection.
	ID string

	// Title is the display title.
	Title string

	// Description is a short summary.
	Description string

	// URL is where the content lives on the site.
	URL string

	// PublishedAt is when the content was published, if known.
	PublishedAt *time.Time
}

// Upsert inserts or replaces a record.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if rec.Type == "" || rec.ID == "" {
		return fmt.Errorf("record needs type and id: %w", domain.ErrInvalidInput)
	}

	var published *int64
	if rec.PublishedAt != nil {
		ts := rec.PublishedAt.Unix()
		published = &ts
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (type, id, title, description, url, published_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type, id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url = excluded.url,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at
	`, rec.Type, rec.ID, rec.Title, rec.Description, rec.URL, published, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upserting record %s/%s: %w", rec.Type, rec.ID, err)
	}
	return nil
}

// Delete removes a record. Missing records fail with domain.ErrNotFound.
func (s *Store) Delete(ctx context.Context, t domain.SourceType, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE type = ? AND id = ?", t, id)
	if err != nil {
		return fmt.Errorf("deleting record %s/%s: %w", t, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %s/%s: %w", t, id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s/%s: %w", t, id, domain.ErrNotFound)
	}
	return nil
}

// List returns every record of a type, ordered by ID.
func (s *Store) List(ctx context.Context, t domain.SourceType) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, id, title, description, url, published_at
		FROM records WHERE type = ? ORDER BY id
	`, t)
	if err != nil {
		return nil, fmt.Errorf("listing records for %s: %w", t, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the number of records of a type.
func (s *Store) Count(ctx context.Context, t domain.SourceType) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE type = ?", t)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records for %s: %w", t, err)
	}
	return n, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var (
			rec       Record
			published sql.NullInt64
		)
		if err := rows.Scan(&rec.Type, &rec.ID, &rec.Title, &rec.Description, &rec.URL, &published); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if published.Valid {
			ts := time.Unix(published.Int64, 0).UTC()
			rec.PublishedAt = &ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
