package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks mdinsert/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// GetByName gets a document by name.
	// Returns nil and ErrNotFound if not found.
	GetByName(ctx context.Context, name string) (*Document, error)
	// Upsert inserts a new document or replaces the source of an existing one.
	Upsert(ctx context.Context, doc *Document) error
	// List returns all documents ordered by name, without their source.
	List(ctx context.Context) ([]Document, error)
	// DeleteByName removes a document. Returns ErrNotFound if it does not exist.
	DeleteByName(ctx context.Context, name string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// GetByName gets a document by name.
func (r *DocumentRepo) GetByName(ctx context.Context, name string) (*Document, error) {
	var doc Document

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, source, hash, created_at, updated_at FROM documents WHERE name = ?",
		name,
	).Scan(&doc.ID, &doc.Name, &doc.Source, &doc.Hash, &doc.CreatedAt, &doc.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// Upsert inserts a new document or updates an existing one.
// New documents get a UUID; existing ones keep their ID and creation time.
// doc is updated with the stored ID and timestamps.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := r.now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, name, source, hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		 source = excluded.source, hash = excluded.hash, updated_at = excluded.updated_at`,
		doc.ID, doc.Name, doc.Source, doc.Hash, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	stored, err := r.GetByName(ctx, doc.Name)
	if err != nil {
		return fmt.Errorf("failed to read back document: %w", err)
	}
	*doc = *stored

	return nil
}

// List returns all documents ordered by name. Source is left empty.
func (r *DocumentRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, hash, created_at, updated_at FROM documents ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Hash, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// DeleteByName removes the document with the given name.
func (r *DocumentRepo) DeleteByName(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
