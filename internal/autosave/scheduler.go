// Package autosave debounces draft writes after workspace mutations.
package autosave

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/rs/zerolog/log"
)

// Saver persists a snapshot and reports whether it succeeded
type Saver interface {
	Save(ctx context.Context, ws domain.Workspace) bool
}

// Scheduler saves the latest snapshot once mutations settle
type Scheduler struct {
	saver     Saver
	delay     time.Duration
	debouncer *Debouncer
	now       func() time.Time

	// seq numbers snapshots in Notify order; writes are serialized by saveMu and a
	// snapshot older than the last one written is dropped
	seq     atomic.Uint64
	saveMu  sync.Mutex
	written uint64

	mu        sync.RWMutex
	lastSaved time.Time
}

// NewScheduler creates a scheduler that waits delay after the last change
func NewScheduler(saver Saver, delay time.Duration) *Scheduler {
	return &Scheduler{
		saver:     saver,
		delay:     delay,
		debouncer: NewDebouncer(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Notify (re)schedules a save of ws
func (s *Scheduler) Notify(ws domain.Workspace) {
	snapshot := ws.Clone()
	seq := s.seq.Add(1)
	s.debouncer.Schedule(func() { s.save(seq, snapshot) }, s.delay)
}

// Flush saves the pending snapshot immediately
func (s *Scheduler) Flush() {
	s.debouncer.Flush()
}

// Stop discards any pending save
func (s *Scheduler) Stop() {
	s.debouncer.Cancel()
}

// Pending reports whether a save is scheduled
func (s *Scheduler) Pending() bool {
	return s.debouncer.Pending()
}

// LastSaved returns the time of the last successful save
func (s *Scheduler) LastSaved() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaved
}

// MarkSavedIfUnset records t as the last save time when nothing was saved yet
func (s *Scheduler) MarkSavedIfUnset(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSaved.IsZero() {
		s.lastSaved = t
	}
}

func (s *Scheduler) save(seq uint64, ws domain.Workspace) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if seq <= s.written {
		log.Debug().Uint64("seq", seq).Uint64("written", s.written).Msg("Skipping stale autosave")
		return
	}
	s.written = seq

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !s.saver.Save(ctx, ws) {
		return
	}

	s.mu.Lock()
	s.lastSaved = s.now()
	s.mu.Unlock()
	log.Debug().Time("saved_at", s.LastSaved()).Msg("Autosave complete")
}
