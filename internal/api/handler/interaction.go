package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/interaction-drafts/internal/api/response"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/Rrens/interaction-drafts/internal/sanitize"
	"github.com/Rrens/interaction-drafts/internal/service"
	"github.com/Rrens/interaction-drafts/internal/workspace"
	"github.com/go-chi/chi/v5"
)

// InteractionHandler handles workspace editing endpoints
type InteractionHandler struct {
	editor *service.EditorService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(editor *service.EditorService) *InteractionHandler {
	return &InteractionHandler{editor: editor}
}

type contentRequest struct {
	Content string `json:"content" validate:"max=1000000"`
}

type moveRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// List returns the current workspace view
func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.editor.View())
}

// Create appends a new interaction
func (h *InteractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.InteractionInput
	if r.ContentLength != 0 {
		if !decode(w, r, &input) {
			return
		}
	}

	response.Created(w, h.editor.Create(input))
}

// Update applies a partial change to one interaction
func (h *InteractionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.InteractionInput
	if !decode(w, r, &input) {
		return
	}

	it, changed, err := h.editor.Update(chi.URLParam(r, "interactionID"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"interaction": it,
		"changed":     changed,
	})
}

// Delete removes an interaction
func (h *InteractionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Remove(chi.URLParam(r, "interactionID")); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, h.editor.View())
}

// Select marks an interaction as current
func (h *InteractionHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Select(chi.URLParam(r, "interactionID")); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// SetContent replaces the rich-text content of an interaction
func (h *InteractionHandler) SetContent(w http.ResponseWriter, r *http.Request) {
	var input contentRequest
	if !decode(w, r, &input) {
		return
	}

	it, err := h.editor.EditContent(chi.URLParam(r, "interactionID"), input.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, it)
}

// Paste inserts sanitized clipboard content into an interaction
func (h *InteractionHandler) Paste(w http.ResponseWriter, r *http.Request) {
	var input sanitize.ClipboardPayload
	if !decode(w, r, &input) {
		return
	}

	it, err := h.editor.Paste(chi.URLParam(r, "interactionID"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, it)
}

// Duplicate copies an interaction after its source
func (h *InteractionHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	it, err := h.editor.Duplicate(chi.URLParam(r, "interactionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, it)
}

// Move shifts an interaction up or down by one position
func (h *InteractionHandler) Move(w http.ResponseWriter, r *http.Request) {
	var input moveRequest
	if !decode(w, r, &input) {
		return
	}

	if err := h.editor.Move(chi.URLParam(r, "interactionID"), workspace.Direction(input.Direction)); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, h.editor.View())
}

// Reset replaces the workspace with a single fresh interaction
func (h *InteractionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.editor.Reset()
	response.OK(w, h.editor.View())
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}
