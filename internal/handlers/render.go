package handlers

import (
	"encoding/json"
	"net/http"

	"mdinsert/internal/contextutil"
	"mdinsert/internal/pipeline"
	"mdinsert/internal/service"
)

// RenderHandler renders raw markdown to HTML after resolving inserts.
type RenderHandler struct {
	documentService service.DocumentService
}

// NewRenderHandler creates a new RenderHandler.
func NewRenderHandler(documentService service.DocumentService) *RenderHandler {
	return &RenderHandler{
		documentService: documentService,
	}
}

// RenderRequest is the markdown to render.
type RenderRequest struct {
	Markdown string `json:"markdown"`
}

// RenderResponse is a rendered document.
type RenderResponse struct {
	HTML  string         `json:"html"`
	Title string         `json:"title,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func newRenderResponse(res *pipeline.Result) RenderResponse {
	return RenderResponse{
		HTML:  res.HTML,
		Title: res.Title,
		Meta:  res.Meta,
	}
}

// ServeHTTP handles POST /api/v1/render.
func (h *RenderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.documentService.RenderSource(ctx, req.Markdown)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to render document")
		return
	}

	writeJSON(w, ctx, http.StatusOK, newRenderResponse(res))
}
