package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/interaction-drafts/internal/autosave"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/Rrens/interaction-drafts/internal/draft"
	"github.com/Rrens/interaction-drafts/internal/remote"
	"github.com/Rrens/interaction-drafts/internal/sanitize"
	"github.com/Rrens/interaction-drafts/internal/transfer"
	"github.com/Rrens/interaction-drafts/internal/workspace"
	"github.com/rs/zerolog/log"
)

// View is an immutable snapshot of the editor for presentation
type View struct {
	Interactions domain.Workspace `json:"interactions"`
	SelectedID   string           `json:"selectedId"`
	LastSaved    *time.Time       `json:"lastSaved,omitempty"`
	Sync         remote.State     `json:"sync"`
}

// EditorService is the single owner of the canonical workspace
type EditorService struct {
	repo      *workspace.Repository
	sanitizer *sanitize.Sanitizer
	store     *draft.Store
	autosave  *autosave.Scheduler
	syncer    *remote.Syncer
	codec     *transfer.Codec
	notifier  Notifier

	mu       sync.RWMutex
	ws       domain.Workspace
	selected string
	// edits counts committed local changes; a hydrate started before the latest
	// one must not overwrite it
	edits uint64
}

// NewEditorService creates a new editor service
func NewEditorService(
	repo *workspace.Repository,
	sanitizer *sanitize.Sanitizer,
	store *draft.Store,
	scheduler *autosave.Scheduler,
	syncer *remote.Syncer,
	codec *transfer.Codec,
	notifier Notifier,
) *EditorService {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	ws := repo.Default()
	return &EditorService{
		repo:      repo,
		sanitizer: sanitizer,
		store:     store,
		autosave:  scheduler,
		syncer:    syncer,
		codec:     codec,
		notifier:  notifier,
		ws:        ws,
		selected:  ws[0].ID,
	}
}

// Init loads the local draft, falling back to a single fresh interaction
func (s *EditorService) Init(ctx context.Context) {
	ws, ok := s.store.Load(ctx)
	if !ok {
		ws = s.repo.Default()
		log.Info().Str("key", s.store.Key()).Msg("No draft found, starting with a fresh interaction")
	} else {
		log.Info().Str("key", s.store.Key()).Int("interactions", len(ws)).Msg("Draft restored")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws = ws
	s.selected = ws[0].ID
}

// Activate hydrates from the remote service once, when one is configured
func (s *EditorService) Activate(ctx context.Context) error {
	if !s.syncer.HydrateEnabled() {
		return nil
	}
	return s.Hydrate(ctx)
}

// Deactivate cancels any in-flight hydrate and writes the pending draft
func (s *EditorService) Deactivate() {
	s.syncer.CancelHydrate()
	s.autosave.Flush()
}

// View returns the current snapshot
func (s *EditorService) View() View {
	// Hydrate applies under the syncer lock and then takes the editor lock; read it first.
	state := s.syncer.State()

	s.mu.RLock()
	view := View{
		Interactions: s.ws.Clone(),
		SelectedID:   s.selected,
		Sync:         state,
	}
	s.mu.RUnlock()

	if saved := s.autosave.LastSaved(); !saved.IsZero() {
		view.LastSaved = &saved
	}
	return view
}

// Select marks an interaction as the current one
func (s *EditorService) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ws.Index(id) < 0 {
		return domain.ErrNotFound
	}
	s.selected = id
	return nil
}

// Create appends a new interaction and selects it
func (s *EditorService) Create(in domain.InteractionInput) domain.Interaction {
	var created domain.Interaction
	s.mutate(func(ws domain.Workspace) (domain.Workspace, string, error) {
		next, it := s.repo.Create(ws, in)
		created = it
		return next, it.ID, nil
	})
	return created
}

// Update changes the given fields of one interaction. It reports whether anything changed.
func (s *EditorService) Update(id string, patch domain.InteractionInput) (domain.Interaction, bool, error) {
	var changed bool
	err := s.mutate(func(ws domain.Workspace) (domain.Workspace, string, error) {
		next, ok, err := s.repo.Update(ws, id, patch)
		changed = ok
		return next, "", err
	})
	if err != nil {
		return domain.Interaction{}, false, err
	}

	it, _ := s.find(id)
	return it, changed, nil
}

// EditContent sanitizes markup and stores it as the interaction content
func (s *EditorService) EditContent(id string, markup string) (domain.Interaction, error) {
	clean, err := s.sanitizer.Sanitize(markup)
	if err != nil {
		s.notifier.Error("Content was rejected because it could not be sanitized")
		return domain.Interaction{}, err
	}

	it, _, err := s.Update(id, domain.InteractionInput{Content: &clean})
	return it, err
}

// Paste sanitizes a clipboard payload and appends it to the interaction content
func (s *EditorService) Paste(id string, payload sanitize.ClipboardPayload) (domain.Interaction, error) {
	fragment, err := s.sanitizer.Paste(payload)
	if err != nil {
		s.notifier.Error("Pasted content was rejected because it could not be sanitized")
		return domain.Interaction{}, err
	}
	if fragment == "" {
		return s.mustFind(id)
	}

	var result domain.Interaction
	err = s.mutate(func(ws domain.Workspace) (domain.Workspace, string, error) {
		current, ok := ws.Find(id)
		if !ok {
			return ws, "", domain.ErrNotFound
		}
		content := current.Content + fragment
		next, _, err := s.repo.Update(ws, id, domain.InteractionInput{Content: &content})
		if err == nil {
			result, _ = next.Find(id)
		}
		return next, "", err
	})
	return result, err
}

// Remove deletes an interaction and moves the selection to a neighbour
func (s *EditorService) Remove(id string) error {
	err := s.mutate(func(ws domain.Workspace) (domain.Workspace, string, error) {
		next, fallback, err := s.repo.Remove(ws, id)
		if err != nil {
			return ws, "", err
		}
		if s.selected != id {
			fallback = ""
		}
		return next, fallback, nil
	})
	if errors.Is(err, domain.ErrLastInteraction) {
		s.notifier.Error("At least one interaction is required")
	}
	return err
}

// Duplicate copies an interaction, inserts it after the source and selects it
func (s *EditorService) Duplicate(id string) (domain.Interaction, error) {
	var copied domain.Interaction
	err := s.mutate(func(ws domain.Workspace) (domain.Workspace, string, error) {
		next, it, err := s.repo.Duplicate(ws, id)
		copied = it
		return next, it.ID, err
	})
	return copied, err
}

// Move shifts an interaction one position up or down
func (s *EditorService) Move(id string, dir workspace.Direction) error {
	return s.mutate(func(ws domain.Workspace) (domain.Workspace, string, error) {
		next, _, err := s.repo.Move(ws, id, dir)
		return next, "", err
	})
}

// Reset replaces the workspace with a single fresh interaction
func (s *EditorService) Reset() {
	s.mutate(func(domain.Workspace) (domain.Workspace, string, error) {
		ws := s.repo.Default()
		return ws, ws[0].ID, nil
	})
	s.notifier.Success("Workspace reset")
}

// Export serializes the workspace for download and best-effort clipboard copy
func (s *EditorService) Export() (*transfer.Export, error) {
	s.mu.RLock()
	snapshot := s.ws.Clone()
	s.mu.RUnlock()

	export, err := s.codec.Export(snapshot)
	if err != nil {
		s.notifier.Error("Export failed: " + err.Error())
		return nil, err
	}

	if export.Copied {
		s.notifier.Success("Interactions copied to clipboard and ready to download")
	} else {
		s.notifier.Success("Interactions ready to download")
	}
	return export, nil
}

// Import replaces the workspace with the interactions found in data
func (s *EditorService) Import(data []byte) (int, error) {
	inputs, err := s.codec.Import(data)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyImport) {
			s.notifier.Error("Import failed: file contained no interactions")
		} else {
			s.notifier.Error("Import failed: " + err.Error())
		}
		return 0, err
	}

	var count int
	s.mutate(func(domain.Workspace) (domain.Workspace, string, error) {
		next := s.repo.Normalize(inputs)
		count = len(next)
		return next, next[0].ID, nil
	})

	s.notifier.Success(fmt.Sprintf("Imported %d %s", count, plural(count, "interaction")))
	return count, nil
}

// Hydrate loads the remote workspace, replacing the local one when it is not empty
func (s *EditorService) Hydrate(ctx context.Context) error {
	s.mu.RLock()
	base := s.edits
	s.mu.RUnlock()

	var count int
	applied, err := s.syncer.Hydrate(ctx, func(inputs []domain.InteractionInput) bool {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.edits != base {
			return false
		}
		next := s.repo.Normalize(inputs)
		count = len(next)
		s.commitLocked(next, "")
		return true
	})
	if err != nil {
		if errors.Is(err, domain.ErrSyncDisabled) {
			return err
		}
		log.Error().Err(err).Msg("Failed to hydrate interactions")
		s.notifier.Error("Failed to load remote interactions: " + err.Error())
		return err
	}

	if applied {
		log.Info().Int("interactions", count).Msg("Workspace hydrated from remote")
		s.notifier.Success(fmt.Sprintf("Loaded %d %s from remote", count, plural(count, "interaction")))
	}
	return nil
}

// Publish pushes the whole workspace to the remote service. confirmed must reflect an
// explicit user confirmation.
func (s *EditorService) Publish(ctx context.Context, confirmed bool) error {
	s.mu.RLock()
	snapshot := s.ws.Clone()
	s.mu.RUnlock()

	at, err := s.syncer.Publish(ctx, snapshot, confirmed)
	if err != nil {
		if !errors.Is(err, domain.ErrPublishNotConfirmed) {
			log.Error().Err(err).Msg("Failed to publish interactions")
			s.notifier.Error("Publish failed: " + err.Error())
		}
		return err
	}

	s.autosave.MarkSavedIfUnset(at)
	s.notifier.Success(fmt.Sprintf("Published %d %s", len(snapshot), plural(len(snapshot), "interaction")))
	return nil
}

// mutate applies fn to the current workspace. A non-empty selection returned by fn
// becomes the current selection. A mutation that changes the workspace supersedes any
// hydrate already in flight; rejected and no-op calls leave it alone.
func (s *EditorService) mutate(fn func(domain.Workspace) (domain.Workspace, string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, selected, err := fn(s.ws)
	if err != nil {
		return err
	}
	if s.commitLocked(next, selected) {
		s.edits++
	}
	return nil
}

// commitLocked installs next and reports whether it differs from the current snapshot
func (s *EditorService) commitLocked(next domain.Workspace, selected string) bool {
	next = s.repo.Ensure(next)
	changed := !sameSnapshot(s.ws, next)

	s.ws = next
	switch {
	case selected != "" && next.Index(selected) >= 0:
		s.selected = selected
	case next.Index(s.selected) < 0:
		s.selected = next[0].ID
	}

	if changed {
		s.autosave.Notify(next)
	}
	return changed
}

func (s *EditorService) find(id string) (domain.Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.ws.Find(id)
	return it.Clone(), ok
}

func (s *EditorService) mustFind(id string) (domain.Interaction, error) {
	it, ok := s.find(id)
	if !ok {
		return domain.Interaction{}, domain.ErrNotFound
	}
	return it, nil
}

// sameSnapshot reports whether b is the very same snapshot as a (no copy was made)
func sameSnapshot(a, b domain.Workspace) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return strings.TrimSpace(word) + "s"
}
