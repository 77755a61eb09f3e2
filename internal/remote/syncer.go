package remote

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/rs/zerolog/log"
)

// Remote is the transport used by the Syncer
type Remote interface {
	Fetch(ctx context.Context) ([]domain.InteractionInput, error)
	Put(ctx context.Context, ws domain.Workspace) error
}

// Status of a sync operation
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// OperationState is the observable state of hydrate or publish
type OperationState struct {
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// State is a snapshot of the syncer
type State struct {
	HydrateEnabled bool           `json:"hydrateEnabled"`
	PublishEnabled bool           `json:"publishEnabled"`
	Hydrate        OperationState `json:"hydrate"`
	Publish        OperationState `json:"publish"`
	LastPublished  time.Time      `json:"lastPublished,omitempty"`
}

// Syncer tracks hydrate/publish state and guarantees that a superseded hydrate
// never applies its result.
type Syncer struct {
	remote         Remote
	publishEnabled bool
	now            func() time.Time

	mu            sync.Mutex
	gen           uint64
	cancel        context.CancelFunc
	hydrate       OperationState
	publish       OperationState
	lastPublished time.Time
}

// New creates a syncer from configuration; an empty endpoint disables it
func New(cfg config.RemoteConfig) *Syncer {
	if !cfg.Enabled() {
		return NewSyncer(nil, false)
	}

	client := NewClient(cfg)
	log.Info().Str("url", client.URL()).Bool("publish", cfg.PublishEnabled).Msg("Remote sync enabled")
	return NewSyncer(client, cfg.PublishEnabled)
}

// Close cancels any in-flight hydrate and releases the transport
func (s *Syncer) Close() error {
	s.CancelHydrate()
	if closer, ok := s.remote.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewSyncer creates a syncer over remote. A nil remote disables both operations.
func NewSyncer(remote Remote, publishEnabled bool) *Syncer {
	return &Syncer{
		remote:         remote,
		publishEnabled: publishEnabled,
		now:            func() time.Time { return time.Now().UTC() },
		hydrate:        OperationState{Status: StatusIdle},
		publish:        OperationState{Status: StatusIdle},
	}
}

// HydrateEnabled reports whether an endpoint is configured
func (s *Syncer) HydrateEnabled() bool {
	return s.remote != nil
}

// PublishEnabled reports whether publishing is allowed
func (s *Syncer) PublishEnabled() bool {
	return s.remote != nil && s.publishEnabled
}

// Hydrate fetches the remote workspace and passes a non-empty result to apply.
// Starting a new hydrate or calling CancelHydrate invalidates this one; an invalidated
// hydrate returns (false, nil) and never calls apply, even if its response arrives later.
// apply reports false when the caller's state moved on meanwhile and the result was
// dropped. It runs while the syncer lock is held, so it must not call back into the Syncer.
func (s *Syncer) Hydrate(ctx context.Context, apply func([]domain.InteractionInput) bool) (bool, error) {
	if s.remote == nil {
		return false, domain.ErrSyncDisabled
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	token := s.gen
	hctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.hydrate = OperationState{Status: StatusLoading, UpdatedAt: s.now()}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.gen == token {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	inputs, err := s.remote.Fetch(hctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.gen {
		log.Debug().Uint64("token", token).Msg("Discarding superseded hydrate")
		return false, nil
	}
	if hctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.hydrate = OperationState{Status: StatusIdle, UpdatedAt: s.now()}
		log.Debug().Uint64("token", token).Msg("Hydrate cancelled")
		return false, nil
	}
	if err != nil {
		s.hydrate = OperationState{Status: StatusError, Error: err.Error(), UpdatedAt: s.now()}
		return false, err
	}

	if len(inputs) == 0 {
		s.hydrate = OperationState{Status: StatusSuccess, UpdatedAt: s.now()}
		return false, nil
	}

	if !apply(inputs) {
		s.hydrate = OperationState{Status: StatusIdle, UpdatedAt: s.now()}
		log.Debug().Uint64("token", token).Msg("Discarding hydrate superseded by a local change")
		return false, nil
	}

	s.hydrate = OperationState{Status: StatusSuccess, UpdatedAt: s.now()}
	return true, nil
}

// CancelHydrate invalidates any in-flight hydrate
func (s *Syncer) CancelHydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.gen++
	s.hydrate = OperationState{Status: StatusIdle, UpdatedAt: s.now()}
}

// Publish sends the whole workspace to the remote service. The caller must have
// obtained confirmation from the user; there is no retry.
func (s *Syncer) Publish(ctx context.Context, ws domain.Workspace, confirmed bool) (time.Time, error) {
	if !s.PublishEnabled() {
		return time.Time{}, domain.ErrPublishDisabled
	}
	if !confirmed {
		return time.Time{}, domain.ErrPublishNotConfirmed
	}

	s.mu.Lock()
	s.publish = OperationState{Status: StatusLoading, UpdatedAt: s.now()}
	s.mu.Unlock()

	err := s.remote.Put(ctx, ws)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err != nil {
		s.publish = OperationState{Status: StatusError, Error: err.Error(), UpdatedAt: now}
		return time.Time{}, err
	}

	s.publish = OperationState{Status: StatusSuccess, UpdatedAt: now}
	s.lastPublished = now
	return now, nil
}

// State returns a snapshot of the sync state
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		HydrateEnabled: s.HydrateEnabled(),
		PublishEnabled: s.PublishEnabled(),
		Hydrate:        s.hydrate,
		Publish:        s.publish,
		LastPublished:  s.lastPublished,
	}
}
