package storage

import "time"

// Document is a stored markdown source that may contain insertion markers.
type Document struct {
	ID        string // UUID
	Name      string // Unique document name
	Source    string // Raw markdown, markers unresolved
	Hash      string // SHA256 hex string of Source
	CreatedAt time.Time
	UpdatedAt time.Time
}
