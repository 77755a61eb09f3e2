package handler

import (
	"net/http"

	"github.com/Rrens/interaction-drafts/internal/api/response"
	"github.com/Rrens/interaction-drafts/internal/service"
)

// SyncHandler handles remote hydrate and publish endpoints
type SyncHandler struct {
	editor *service.EditorService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(editor *service.EditorService) *SyncHandler {
	return &SyncHandler{editor: editor}
}

type publishRequest struct {
	Confirm bool `json:"confirm"`
}

// Status returns the hydrate/publish state
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.editor.View().Sync)
}

// Hydrate reloads the workspace from the remote service
func (h *SyncHandler) Hydrate(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Hydrate(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, h.editor.View())
}

// Publish pushes the workspace to the remote service; the body must carry {"confirm":true}
func (h *SyncHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var input publishRequest
	if !decode(w, r, &input) {
		return
	}

	if err := h.editor.Publish(r.Context(), input.Confirm); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, h.editor.View().Sync)
}
