package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/starford/zettel/internal/checksum"
	"github.com/starford/zettel/internal/extract"
	"github.com/starford/zettel/internal/index"
	"github.com/starford/zettel/internal/report"
	"github.com/starford/zettel/internal/storage"
)

const indexCacheKey = "index"

// Report is one rendered report.
type Report struct {
	Content  string    `json:"content"`
	Checksum string    `json:"checksum"`
	Created  time.Time `json:"created"`
}

// Service coordinates scanning, graph building and rendering.
type Service struct {
	store    storage.Provider
	registry *extract.Registry
	workers  int
	cache    *gocache.Cache
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds concurrent file reads during a scan.
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// WithCacheTTL keeps scans and renders for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = gocache.New(ttl, 2*ttl)
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the render timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new note service.
func NewService(store storage.Provider, reg *extract.Registry, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: reg,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index scans the notes and builds a fresh graph, or returns the cached one.
func (s *Service) Index(ctx context.Context) (*index.Index, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(indexCacheKey); ok {
			return v.(*index.Index), nil
		}
	}
	notes, err := index.Scan(ctx, s.store, s.registry, index.ScanOptions{Workers: s.workers}, s.logger)
	if err != nil {
		return nil, err
	}
	idx := index.Build(notes, s.registry)
	if s.cache != nil {
		s.cache.SetDefault(indexCacheKey, idx)
	}
	return idx, nil
}

// Render renders tmpl against the current graph.
func (s *Service) Render(ctx context.Context, tmpl string) (*Report, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}

	key := "report:" + fingerprint(tmpl, idx)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(*Report), nil
		}
	}

	created := s.now()
	content, err := report.Generate(tmpl, report.Input{
		Notes:      idx.Notes(),
		Links:      idx.Links(),
		Categories: idx.Categories(),
		Created:    created,
		Modified:   idx.Modified(),
	})
	if err != nil {
		return nil, fmt.Errorf("noteservice: render: %w", err)
	}
	rep := &Report{Content: content, Checksum: checksum.Sum([]byte(content)), Created: created}
	if s.cache != nil {
		s.cache.SetDefault(key, rep)
	}
	return rep, nil
}

// RenderFile renders the template stored at templatePath.
func (s *Service) RenderFile(ctx context.Context, templatePath string) (*Report, error) {
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("noteservice: read template: %w", err)
	}
	return s.Render(ctx, string(tmpl))
}

// WriteReport renders the template at templatePath and writes the result to
// outputPath. Nothing is written when rendering fails.
func (s *Service) WriteReport(ctx context.Context, templatePath, outputPath string) (*Report, error) {
	rep, err := s.RenderFile(ctx, templatePath)
	if err != nil {
		return nil, err
	}
	if err := storage.WriteFile(outputPath, []byte(rep.Content)); err != nil {
		return nil, fmt.Errorf("noteservice: write report: %w", err)
	}
	s.logger.Info("report written", slog.String("output", outputPath), slog.Int("bytes", len(rep.Content)))
	return rep, nil
}

// fingerprint identifies a render by its template and note contents.
func fingerprint(tmpl string, idx *index.Index) string {
	notes := idx.Notes()
	parts := make([]string, 0, 2*len(notes)+1)
	parts = append(parts, tmpl)
	for _, n := range notes {
		parts = append(parts, n.Fullpath, n.Checksum)
	}
	return checksum.Combine(parts...)
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
