package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rrens/interaction-drafts/internal/api/response"
	"github.com/Rrens/interaction-drafts/internal/service"
)

const maxImportSize = 10 << 20

// TransferHandler handles import and export endpoints
type TransferHandler struct {
	editor *service.EditorService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(editor *service.EditorService) *TransferHandler {
	return &TransferHandler{editor: editor}
}

// Export downloads the workspace as a pretty-printed JSON document
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.editor.Export()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Clipboard-Copied", strconv.FormatBool(export.Copied))
	response.Attachment(w, export.Filename, "application/json", export.Document)
}

// Import replaces the workspace with an uploaded document, sent either as the raw
// request body or as the multipart field "file"
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			response.BadRequest(w, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, "no file uploaded")
			return
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		response.BadRequest(w, "failed to read upload")
		return
	}

	count, err := h.editor.Import(data)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"imported": count,
		"view":     h.editor.View(),
	})
}
