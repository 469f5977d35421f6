// Package storage discovers, reads and writes note files.
package storage

import "github.com/starford/zettel/internal/models"

// Provider is the interface for note file operations.
type Provider interface {
	// List returns metadata for every note file under dir (relative to the
	// notes root), sorted by path and filtered by the ignore globs.
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Abs returns the resolved absolute path of path.
	Abs(path string) (string, error)
}
