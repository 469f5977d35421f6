package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/zettel/internal/models"
)

// DefaultExtensions are the note file extensions discovered when none are
// configured.
var DefaultExtensions = []string{".md"}

// FS implements Provider backed by the local file system.
type FS struct {
	root       string // absolute path to the notes directory
	ignore     []string
	extensions []string
}

// FSOption configures an FS.
type FSOption func(*FS)

// WithIgnore skips files and directories whose root-relative slash path
// matches any of the doublestar patterns.
func WithIgnore(patterns ...string) FSOption {
	return func(f *FS) {
		f.ignore = append(f.ignore, patterns...)
	}
}

// WithExtensions replaces the discovered file extensions.
func WithExtensions(exts ...string) FSOption {
	return func(f *FS) {
		if len(exts) > 0 {
			f.extensions = slices.Clone(exts)
		}
	}
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string, opts ...FSOption) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	f := &FS{root: abs, extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(f)
	}
	for _, p := range f.ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("storage: invalid ignore pattern %q", p)
		}
	}
	return f, nil
}

// Root returns the absolute notes directory.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the root and rejects any
// result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes notes root: %s", rel)
	}
	return abs, nil
}

// Abs returns the absolute path of a root-relative path.
func (f *FS) Abs(path string) (string, error) {
	return f.safePath(path)
}

func (f *FS) ignored(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, p := range f.ignore {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

func (f *FS) isNote(name string) bool {
	return slices.Contains(f.extensions, strings.ToLower(filepath.Ext(name)))
}

// List walks dir (relative to root) and returns metadata for every note file.
func (f *FS) List(dir string) ([]models.NoteMetadata, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.NoteMetadata
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != base && f.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !f.isNote(d.Name()) || f.ignored(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, models.NoteMetadata{
			Path:      rel,
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	slices.SortFunc(out, func(a, b models.NoteMetadata) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out, nil
}

// Read returns the raw bytes of a note file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically writes content to a root-relative path.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	return WriteFile(abs, content)
}

// WriteFile atomically writes content to an absolute path: tmp file, fsync,
// rename. Parent directories are created as needed and existing content is
// replaced.
func WriteFile(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".zettel-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
