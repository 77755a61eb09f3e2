// Package draft persists workspace snapshots under a local key.
package draft

import (
	"context"
	"errors"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/Rrens/interaction-drafts/internal/workspace"
	"github.com/rs/zerolog/log"
)

// Backend reads and writes raw documents by key. Implementations return
// domain.ErrDraftNotFound when the key holds nothing.
type Backend interface {
	Name() string
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Store saves and loads the workspace draft
type Store struct {
	backend Backend
	key     string
	repo    *workspace.Repository
}

// NewStore creates a new draft store
func NewStore(backend Backend, key string, repo *workspace.Repository) *Store {
	return &Store{backend: backend, key: key, repo: repo}
}

// Key returns the persistence key
func (s *Store) Key() string {
	return s.key
}

// Save writes the snapshot. Failures are logged and reported as false; they never
// propagate to the caller.
func (s *Store) Save(ctx context.Context, ws domain.Workspace) bool {
	data, err := domain.EncodeDocument(ws, false)
	if err != nil {
		s.logFailure(&domain.StorageError{Op: "encode", Key: s.key, Err: err})
		return false
	}

	if err := s.backend.Write(ctx, s.key, data); err != nil {
		s.logFailure(&domain.StorageError{Op: "write", Key: s.key, Err: err})
		return false
	}

	log.Debug().Str("key", s.key).Str("backend", s.backend.Name()).Int("interactions", len(ws)).Msg("Draft saved")
	return true
}

// Load returns the normalized draft. A missing, unreadable or malformed draft is a miss.
func (s *Store) Load(ctx context.Context) (domain.Workspace, bool) {
	data, err := s.backend.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrDraftNotFound) {
			s.logFailure(&domain.StorageError{Op: "read", Key: s.key, Err: err})
		}
		return nil, false
	}

	inputs, err := domain.DecodeDocument(data)
	if err != nil {
		s.logFailure(&domain.StorageError{Op: "decode", Key: s.key, Err: err})
		return nil, false
	}
	if len(inputs) == 0 {
		return nil, false
	}

	return s.repo.Normalize(inputs), true
}

func (s *Store) logFailure(err error) {
	log.Warn().Err(err).Str("backend", s.backend.Name()).Msg("Draft storage unavailable, continuing in memory")
}
