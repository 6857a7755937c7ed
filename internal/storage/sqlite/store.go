// Package sqlite provides a SQLite-backed dungeon archive.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/dungeongen/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dungeongen/internal/platform/timeouts"
	"github.com/louisbranch/dungeongen/internal/storage"
	"github.com/louisbranch/dungeongen/internal/storage/cursor"
	"github.com/louisbranch/dungeongen/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Store persists dungeons in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.DungeonStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite dungeon archive and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		filepath.Clean(path), timeouts.ArchiveBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutDungeon inserts one dungeon record.
func (s *Store) PutDungeon(ctx context.Context, record storage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("dungeon id is required")
	}
	if record.Width <= 0 || record.Height <= 0 {
		return fmt.Errorf("dungeon size must be positive, got %dx%d", record.Width, record.Height)
	}
	if len(record.Cells) != record.Width*record.Height {
		return fmt.Errorf("dungeon has %d cells, want %d", len(record.Cells), record.Width*record.Height)
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO dungeons (
		   id, seed, width, height, entrance, covered, passes, cells, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		record.Seed,
		record.Width,
		record.Height,
		record.Entrance,
		record.Covered,
		record.Passes,
		record.Cells,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put dungeon: %w", err)
	}
	return nil
}

// GetDungeon returns one dungeon by id.
func (s *Store) GetDungeon(ctx context.Context, id string) (storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return storage.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Record{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Record{}, fmt.Errorf("dungeon id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, seed, width, height, entrance, covered, passes, cells, created_at
		   FROM dungeons
		  WHERE id = ?`,
		id,
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Record{}, storage.ErrNotFound
		}
		return storage.Record{}, fmt.Errorf("get dungeon: %w", err)
	}
	return record, nil
}

// ListDungeons returns one page of dungeons, most recently created first.
func (s *Store) ListDungeons(ctx context.Context, pageSize int, pageToken string) (storage.Page, error) {
	if err := ctx.Err(); err != nil {
		return storage.Page{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Page{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := `SELECT id, seed, width, height, entrance, covered, passes, cells, created_at
	   FROM dungeons`
	args := []any{}
	if token := strings.TrimSpace(pageToken); token != "" {
		after, err := cursor.Decode(token)
		if err != nil {
			return storage.Page{}, fmt.Errorf("invalid page token: %w", err)
		}
		query += `
	  WHERE created_at < ? OR (created_at = ? AND id > ?)`
		args = append(args, after.CreatedAt, after.CreatedAt, after.ID)
	}
	query += `
	  ORDER BY created_at DESC, id ASC
	  LIMIT ?`
	// One extra row tells whether another page exists.
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.Page{}, fmt.Errorf("list dungeons: %w", err)
	}
	defer rows.Close()

	var page storage.Page
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return storage.Page{}, fmt.Errorf("scan dungeon: %w", err)
		}
		page.Records = append(page.Records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.Page{}, fmt.Errorf("iterate dungeons: %w", err)
	}

	if len(page.Records) > pageSize {
		page.Records = page.Records[:pageSize]
		last := page.Records[pageSize-1]
		page.NextPageToken, err = cursor.Encode(cursor.Cursor{
			CreatedAt: toMillis(last.CreatedAt),
			ID:        last.ID,
		})
		if err != nil {
			return storage.Page{}, fmt.Errorf("encode page token: %w", err)
		}
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (storage.Record, error) {
	var record storage.Record
	var createdAt int64
	if err := row.Scan(
		&record.ID,
		&record.Seed,
		&record.Width,
		&record.Height,
		&record.Entrance,
		&record.Covered,
		&record.Passes,
		&record.Cells,
		&createdAt,
	); err != nil {
		return storage.Record{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
