package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks mdinsert/internal/service DocumentService

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"mdinsert/internal/contextutil"
	"mdinsert/internal/pipeline"
	"mdinsert/internal/storage"
)

const maxNameLength = 200

// DocumentService stores markdown documents and resolves their insertion
// markers on demand.
type DocumentService interface {
	// Save stores source under name, replacing any previous version.
	Save(ctx context.Context, name, source string) (*storage.Document, error)
	// Get returns the stored document.
	Get(ctx context.Context, name string) (*storage.Document, error)
	// List returns all stored documents without their source.
	List(ctx context.Context) ([]storage.Document, error)
	// Delete removes a stored document.
	Delete(ctx context.Context, name string) error
	// Render resolves and renders a stored document.
	Render(ctx context.Context, name string) (*pipeline.Result, error)
	// Preprocess resolves markers in raw markdown and returns the lines.
	Preprocess(ctx context.Context, source string) ([]string, error)
	// PreprocessLines resolves markers in an already split document.
	PreprocessLines(ctx context.Context, lines []string) ([]string, error)
	// RenderSource resolves and renders raw markdown.
	RenderSource(ctx context.Context, source string) (*pipeline.Result, error)
}

// documentService implements DocumentService.
type documentService struct {
	store    storage.DocumentStore
	renderer *pipeline.Renderer
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(store storage.DocumentStore, renderer *pipeline.Renderer) DocumentService {
	return &documentService{
		store:    store,
		renderer: renderer,
	}
}

func (s *documentService) Save(ctx context.Context, name, source string) (*storage.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateName(name); err != nil {
		logger.WarnContext(ctx, "invalid document name", "name", name, "error", err)
		return nil, err
	}

	sum := sha256.Sum256([]byte(source))
	doc := &storage.Document{
		Name:   name,
		Source: source,
		Hash:   fmt.Sprintf("%x", sum),
	}
	if err := s.store.Upsert(ctx, doc); err != nil {
		logger.ErrorContext(ctx, "failed to store document", "name", name, "error", err)
		return nil, WrapError(err, "failed to store document")
	}

	logger.InfoContext(ctx, "document saved", "name", name, "id", doc.ID, "bytes", len(source))
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, name string) (*storage.Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	doc, err := s.store.GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, WrapError(err, "failed to load document")
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]storage.Document, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list documents")
	}
	return docs, nil
}

func (s *documentService) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := s.store.DeleteByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return WrapError(err, "failed to delete document")
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "document deleted", "name", name)
	return nil
}

func (s *documentService) Render(ctx context.Context, name string) (*pipeline.Result, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	res, err := s.renderer.Convert(ctx, []byte(doc.Source))
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to render document", "name", name, "error", err)
		return nil, classifyInsertError(err)
	}
	return res, nil
}

func (s *documentService) Preprocess(ctx context.Context, source string) ([]string, error) {
	lines, _, err := s.renderer.Preprocess(ctx, []byte(source))
	if err != nil {
		return nil, classifyInsertError(err)
	}
	return lines, nil
}

func (s *documentService) PreprocessLines(ctx context.Context, lines []string) ([]string, error) {
	out, err := s.renderer.Registry().Run(lines)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to preprocess lines", "error", err)
		return nil, classifyInsertError(err)
	}
	return out, nil
}

func (s *documentService) RenderSource(ctx context.Context, source string) (*pipeline.Result, error) {
	res, err := s.renderer.Convert(ctx, []byte(source))
	if err != nil {
		return nil, classifyInsertError(err)
	}
	return res, nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	case len(name) > maxNameLength:
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d bytes", maxNameLength)}
	case strings.ContainsAny(name, `/\`):
		return &ValidationError{Field: "name", Message: "cannot contain path separators"}
	case name == "." || name == "..":
		return &ValidationError{Field: "name", Message: "is reserved"}
	}
	return nil
}
