package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/starford/zettel/internal/apperr"
	"github.com/starford/zettel/internal/checksum"
	"github.com/starford/zettel/internal/extract"
	"github.com/starford/zettel/internal/frontmatter"
	"github.com/starford/zettel/internal/models"
	"github.com/starford/zettel/internal/storage"
)

// DefaultWorkers bounds concurrent file reads when ScanOptions leaves it unset.
const DefaultWorkers = 4

// ScanOptions tunes a scan pass.
type ScanOptions struct {
	Workers int
}

// Scan lists every note under the store root and assembles its Note Record.
// Files that vanished or carry malformed frontmatter are skipped with a
// warning; any other failure aborts the scan. Output follows listing order.
func Scan(ctx context.Context, store storage.Provider, reg *extract.Registry, opts ScanOptions, logger *slog.Logger) ([]models.Note, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("index: scan: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]*models.Note, len(metas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range metas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := scanFile(store, reg, m)
			switch {
			case err == nil:
				results[i] = &n
			case errors.Is(err, fs.ErrNotExist), errors.Is(err, apperr.ErrMalformedInput):
				logger.Warn("scan: skipped", slog.String("path", m.Path), slog.String("error", err.Error()))
			default:
				return fmt.Errorf("index: scan %s: %w", m.Path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("scan: aborted", slog.String("error", err.Error()))
		return nil, err
	}

	notes := make([]models.Note, 0, len(metas))
	for _, n := range results {
		if n != nil {
			notes = append(notes, *n)
		}
	}
	logger.Debug("scan: complete", slog.Int("notes", len(notes)))
	return notes, nil
}

// scanFile reads one note and runs every extractor over the same text.
func scanFile(store storage.Provider, reg *extract.Registry, m models.NoteMetadata) (models.Note, error) {
	data, err := store.Read(m.Path)
	if err != nil {
		return models.Note{}, err
	}
	text := string(data)
	if _, err := frontmatter.Parse(text); err != nil {
		return models.Note{}, err
	}
	fullpath, err := store.Abs(m.Path)
	if err != nil {
		return models.Note{}, err
	}
	n := reg.Record(m.Path, fullpath, text)
	n.Checksum = checksum.Sum(data)
	n.UpdatedAt = m.UpdatedAt
	return n, nil
}
