package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rrens/interaction-drafts/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	key        TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// DraftBackend stores draft documents in a local SQLite file
type DraftBackend struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file and ensures the schema exists
func Open(ctx context.Context, path string) (*DraftBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("database file path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create drafts table: %w", err)
	}

	return &DraftBackend{db: db}, nil
}

func (b *DraftBackend) Name() string {
	return "sqlite"
}

// Read returns the document stored under key
func (b *DraftBackend) Read(ctx context.Context, key string) ([]byte, error) {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var document string
	err = conn.QueryRowContext(ctx, `SELECT document FROM drafts WHERE key = ?`, key).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return []byte(document), nil
}

// Write upserts the document stored under key
func (b *DraftBackend) Write(ctx context.Context, key string, data []byte) error {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	query := `
		INSERT INTO drafts (key, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`
	if _, err := conn.ExecContext(ctx, query, key, string(data), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// Close closes the database
func (b *DraftBackend) Close() error {
	return b.db.Close()
}
