package handlers

import (
	"encoding/json"
	"net/http"

	"mdinsert/internal/contextutil"
	"mdinsert/internal/service"
)

// maxBodyBytes limits request bodies accepted by the markdown endpoints.
const maxBodyBytes = 4 << 20

// PreprocessHandler resolves insertion markers without rendering.
type PreprocessHandler struct {
	documentService service.DocumentService
}

// NewPreprocessHandler creates a new PreprocessHandler.
func NewPreprocessHandler(documentService service.DocumentService) *PreprocessHandler {
	return &PreprocessHandler{
		documentService: documentService,
	}
}

// PreprocessRequest carries either raw markdown or pre-split lines.
// Lines wins when both are set.
type PreprocessRequest struct {
	Markdown string   `json:"markdown,omitempty"`
	Lines    []string `json:"lines,omitempty"`
}

// PreprocessResponse is the resolved document.
type PreprocessResponse struct {
	Lines []string `json:"lines"`
}

// ServeHTTP handles POST /api/v1/preprocess.
func (h *PreprocessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req PreprocessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		lines []string
		err   error
	)
	if req.Lines != nil {
		lines, err = h.documentService.PreprocessLines(ctx, req.Lines)
	} else {
		lines, err = h.documentService.Preprocess(ctx, req.Markdown)
	}
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to preprocess document")
		return
	}

	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, ctx, http.StatusOK, PreprocessResponse{Lines: lines})
}
