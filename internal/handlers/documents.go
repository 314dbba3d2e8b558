package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mdinsert/internal/contextutil"
	"mdinsert/internal/service"
	"mdinsert/internal/storage"
)

// DocumentHandler serves the stored document endpoints. Routes are mounted
// by the router; the document name comes from the {name} URL parameter.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// SaveDocumentRequest is the body of PUT /api/v1/documents/{name}.
type SaveDocumentRequest struct {
	Source string `json:"source"`
}

// DocumentResponse describes a stored document.
type DocumentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Hash      string `json:"hash"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListDocumentsResponse is the body of GET /api/v1/documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

func newDocumentResponse(doc *storage.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Name:      doc.Name,
		Hash:      doc.Hash,
		Source:    doc.Source,
		CreatedAt: doc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: doc.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Save handles PUT /api/v1/documents/{name}.
func (h *DocumentHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	var req SaveDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.documentService.Save(ctx, name, req.Source)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to save document")
		return
	}

	resp := newDocumentResponse(doc)
	resp.Source = ""
	writeJSON(w, ctx, http.StatusOK, resp)
}

// Get handles GET /api/v1/documents/{name}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.documentService.Get(ctx, chi.URLParam(r, "name"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load document")
		return
	}

	writeJSON(w, ctx, http.StatusOK, newDocumentResponse(doc))
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.documentService.List(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list documents")
		return
	}

	resp := ListDocumentsResponse{Documents: make([]DocumentResponse, 0, len(docs))}
	for i := range docs {
		resp.Documents = append(resp.Documents, newDocumentResponse(&docs[i]))
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/documents/{name}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.documentService.Delete(ctx, chi.URLParam(r, "name")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Render handles GET /api/v1/documents/{name}/render and returns JSON.
func (h *DocumentHandler) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.documentService.Render(ctx, chi.URLParam(r, "name"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to render document")
		return
	}

	writeJSON(w, ctx, http.StatusOK, newRenderResponse(res))
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML handles GET /api/v1/documents/{name}/html and returns a standalone page.
func (h *DocumentHandler) HTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	res, err := h.documentService.Render(ctx, name)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to render document")
		return
	}

	title := res.Title
	if title == "" {
		title = name
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(res.HTML),
	}); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to write page", "error", err)
	}
}
