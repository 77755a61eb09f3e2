package domain

import (
	"slices"
	"time"
)

// Role is the speaker of an interaction turn
type Role string

// Role constants
const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleTool      Role = "tool"
)

// Roles lists every valid role in display order
var Roles = []Role{RoleSystem, RoleAssistant, RoleUser, RoleTool}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// Interaction is one scripted turn of an agent conversation
type Interaction struct {
	ID        string    `json:"id"`
	AgentName string    `json:"agentName"`
	Role      Role      `json:"role"`
	Summary   string    `json:"summary"`
	Variables []string  `json:"variables"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the interaction
func (i Interaction) Clone() Interaction {
	i.Variables = slices.Clone(i.Variables)
	if i.Variables == nil {
		i.Variables = []string{}
	}
	return i
}

// InteractionInput carries optional field values for create, update and import.
// A nil field means "not provided".
type InteractionInput struct {
	ID        *string    `json:"id,omitempty"`
	AgentName *string    `json:"agentName,omitempty" validate:"omitempty,max=200"`
	Role      *string    `json:"role,omitempty" validate:"omitempty,max=32"`
	Summary   *string    `json:"summary,omitempty" validate:"omitempty,max=2000"`
	Variables []string   `json:"variables,omitempty" validate:"omitempty,max=200,dive,max=200"`
	Content   *string    `json:"content,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Workspace is the ordered set of interactions being edited
type Workspace []Interaction

// Clone returns a deep copy safe to hand to other goroutines
func (w Workspace) Clone() Workspace {
	out := make(Workspace, len(w))
	for i, it := range w {
		out[i] = it.Clone()
	}
	return out
}

// Index returns the position of the interaction with the given id, or -1
func (w Workspace) Index(id string) int {
	return slices.IndexFunc(w, func(it Interaction) bool { return it.ID == id })
}

// Find returns the interaction with the given id
func (w Workspace) Find(id string) (Interaction, bool) {
	idx := w.Index(id)
	if idx < 0 {
		return Interaction{}, false
	}
	return w[idx], true
}

// IDs returns the interaction ids in order
func (w Workspace) IDs() []string {
	ids := make([]string, len(w))
	for i, it := range w {
		ids[i] = it.ID
	}
	return ids
}
