package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectDraft = `SELECT document FROM drafts WHERE key = $1`
	upsertDraft = `
		INSERT INTO drafts (key, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
	`
)

// DraftBackend stores draft documents in the drafts table
type DraftBackend struct {
	db *DB
}

// NewDraftBackend creates a new postgres draft backend
func NewDraftBackend(db *DB) *DraftBackend {
	return &DraftBackend{db: db}
}

func (b *DraftBackend) Name() string {
	return "postgres"
}

// Read returns the document stored under key
func (b *DraftBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var document []byte
	err := b.db.WithConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, selectDraft, key).Scan(&document)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return document, nil
}

// Write upserts the document stored under key
func (b *DraftBackend) Write(ctx context.Context, key string, data []byte) error {
	err := b.db.WithConn(ctx, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, upsertDraft, key, data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}
