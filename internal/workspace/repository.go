// Package workspace owns the normalized mutation rules for an ordered set of interactions.
//
// Every operation takes a snapshot and returns a new one; the input is never modified.
package workspace

import (
	"slices"
	"strings"
	"time"

	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/Rrens/interaction-drafts/internal/sanitize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Direction is a reorder direction
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Repository applies normalized, copy-on-write operations to workspaces
type Repository struct {
	defaultRole      domain.Role
	defaultAgentName string
	duplicateSuffix  string
	sanitizer        *sanitize.Sanitizer
	now              func() time.Time
	newID            func() string
}

// Option configures a Repository
type Option func(*Repository)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides id generation
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// NewRepository creates a new repository
func NewRepository(cfg config.EditorConfig, sanitizer *sanitize.Sanitizer, opts ...Option) *Repository {
	role := domain.Role(strings.TrimSpace(cfg.DefaultRole))
	if !role.Valid() {
		role = domain.RoleAssistant
	}
	name := strings.TrimSpace(cfg.DefaultAgentName)
	if name == "" {
		name = "Untitled agent"
	}

	r := &Repository{
		defaultRole:      role,
		defaultAgentName: name,
		duplicateSuffix:  cfg.DuplicateSuffix,
		sanitizer:        sanitizer,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// New builds a normalized interaction from the given overrides
func (r *Repository) New(in domain.InteractionInput) domain.Interaction {
	now := r.now()

	it := domain.Interaction{
		ID:        r.newID(),
		AgentName: r.agentName(in.AgentName),
		Role:      r.role(in.Role),
		Summary:   trimmed(in.Summary),
		Variables: NormalizeVariables(in.Variables),
		Content:   r.content(in.Content),
	}
	if in.ID != nil && strings.TrimSpace(*in.ID) != "" {
		it.ID = strings.TrimSpace(*in.ID)
	}

	switch {
	case in.CreatedAt != nil:
		it.CreatedAt = in.CreatedAt.UTC()
	case in.UpdatedAt != nil:
		it.CreatedAt = in.UpdatedAt.UTC()
	default:
		it.CreatedAt = now
	}
	switch {
	case in.UpdatedAt != nil:
		it.UpdatedAt = in.UpdatedAt.UTC()
	case in.CreatedAt != nil:
		it.UpdatedAt = it.CreatedAt
	default:
		it.UpdatedAt = now
	}
	if it.UpdatedAt.Before(it.CreatedAt) {
		it.UpdatedAt = it.CreatedAt
	}

	return it
}

// Default returns a workspace holding a single fresh interaction
func (r *Repository) Default() domain.Workspace {
	return domain.Workspace{r.New(domain.InteractionInput{})}
}

// Normalize turns arbitrary inputs into a valid workspace: unique ids, ordered
// timestamps, and never empty.
func (r *Repository) Normalize(inputs []domain.InteractionInput) domain.Workspace {
	ws := make(domain.Workspace, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))

	for _, in := range inputs {
		it := r.New(in)
		if seen[it.ID] {
			it.ID = r.newID()
		}
		seen[it.ID] = true
		ws = append(ws, it)
	}

	return r.Ensure(ws)
}

// Ensure synthesizes a default interaction when the workspace is empty
func (r *Repository) Ensure(ws domain.Workspace) domain.Workspace {
	if len(ws) == 0 {
		return r.Default()
	}
	return ws
}

// Create appends a new interaction built from the overrides
func (r *Repository) Create(ws domain.Workspace, in domain.InteractionInput) (domain.Workspace, domain.Interaction) {
	it := r.New(in)
	if ws.Index(it.ID) >= 0 {
		it.ID = r.newID()
	}

	next := append(ws.Clone(), it)
	return next, it
}

// Update applies a partial change to one interaction. It reports false and returns the
// original snapshot when no mutable field actually changes.
func (r *Repository) Update(ws domain.Workspace, id string, patch domain.InteractionInput) (domain.Workspace, bool, error) {
	idx := ws.Index(id)
	if idx < 0 {
		return ws, false, domain.ErrNotFound
	}

	current := ws[idx]
	candidate := current.Clone()
	if patch.AgentName != nil {
		candidate.AgentName = r.agentName(patch.AgentName)
	}
	if patch.Role != nil {
		candidate.Role = r.role(patch.Role)
	}
	if patch.Summary != nil {
		candidate.Summary = trimmed(patch.Summary)
	}
	if patch.Variables != nil {
		candidate.Variables = NormalizeVariables(patch.Variables)
	}
	if patch.Content != nil {
		candidate.Content = r.content(patch.Content)
	}

	if sameValues(current, candidate) {
		return ws, false, nil
	}

	candidate.UpdatedAt = r.now()
	if candidate.UpdatedAt.Before(candidate.CreatedAt) {
		candidate.UpdatedAt = candidate.CreatedAt
	}

	next := ws.Clone()
	next[idx] = candidate
	return next, true, nil
}

// Remove deletes an interaction and returns the id that should be selected next.
// The last remaining interaction can never be removed.
func (r *Repository) Remove(ws domain.Workspace, id string) (domain.Workspace, string, error) {
	idx := ws.Index(id)
	if idx < 0 {
		return ws, "", domain.ErrNotFound
	}
	if len(ws) <= 1 {
		return ws, "", domain.ErrLastInteraction
	}

	next := slices.Delete(ws.Clone(), idx, idx+1)

	var fallback string
	switch {
	case idx-1 >= 0:
		fallback = next[idx-1].ID
	case idx < len(next):
		fallback = next[idx].ID
	default:
		fallback = next[0].ID
	}
	return next, fallback, nil
}

// Duplicate clones an interaction right after its source with a fresh id and timestamps
func (r *Repository) Duplicate(ws domain.Workspace, id string) (domain.Workspace, domain.Interaction, error) {
	idx := ws.Index(id)
	if idx < 0 {
		return ws, domain.Interaction{}, domain.ErrNotFound
	}

	src := ws[idx]
	name := src.AgentName + r.duplicateSuffix
	role := string(src.Role)
	copied := r.New(domain.InteractionInput{
		AgentName: &name,
		Role:      &role,
		Summary:   &src.Summary,
		Variables: src.Variables,
		Content:   &src.Content,
	})
	if ws.Index(copied.ID) >= 0 {
		copied.ID = r.newID()
	}

	next := slices.Insert(ws.Clone(), idx+1, copied)
	return next, copied, nil
}

// Move swaps an interaction with its neighbour. Moving past either end is a no-op.
func (r *Repository) Move(ws domain.Workspace, id string, dir Direction) (domain.Workspace, bool, error) {
	idx := ws.Index(id)
	if idx < 0 {
		return ws, false, domain.ErrNotFound
	}

	target := idx
	switch dir {
	case Up:
		target = idx - 1
	case Down:
		target = idx + 1
	default:
		return ws, false, &domain.ValidationError{Field: "direction", Message: "must be up or down"}
	}
	if target < 0 || target >= len(ws) {
		return ws, false, nil
	}

	next := ws.Clone()
	next[idx], next[target] = next[target], next[idx]
	return next, true, nil
}

// NormalizeVariables trims tokens, drops blanks and removes exact duplicates,
// keeping first-seen order.
func NormalizeVariables(vars []string) []string {
	out := make([]string, 0, len(vars))
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (r *Repository) agentName(v *string) string {
	name := trimmed(v)
	if name == "" {
		return r.defaultAgentName
	}
	return name
}

func (r *Repository) role(v *string) domain.Role {
	role := domain.Role(strings.ToLower(trimmed(v)))
	if !role.Valid() {
		return r.defaultRole
	}
	return role
}

func (r *Repository) content(v *string) string {
	if v == nil || r.sanitizer == nil {
		return deref(v)
	}
	clean, err := r.sanitizer.Sanitize(*v)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping content that failed sanitization")
		return ""
	}
	return clean
}

func sameValues(a, b domain.Interaction) bool {
	return a.AgentName == b.AgentName &&
		a.Role == b.Role &&
		a.Summary == b.Summary &&
		a.Content == b.Content &&
		sameSet(a.Variables, b.Variables)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func trimmed(v *string) string {
	return strings.TrimSpace(deref(v))
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
