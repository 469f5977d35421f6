package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"slices"

	"github.com/starford/zettel/internal/apperr"
	"github.com/starford/zettel/internal/extract"
	"github.com/starford/zettel/internal/frontmatter"
)

// Normalize merges allowed inline [key:: value] annotations into each note's
// frontmatter. With move the merged annotations are deleted from the body.
// It returns the number of notes rewritten.
func (s *Service) Normalize(ctx context.Context, move bool) (int, error) {
	allow, err := extract.CompilePatterns(s.registry.Options().PropertyKeys)
	if err != nil {
		return 0, err
	}
	metas, err := s.store.List("")
	if err != nil {
		return 0, fmt.Errorf("noteservice: normalize: %w", err)
	}

	count := 0
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		data, err := s.store.Read(m.Path)
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("normalize: skipped", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return count, err
		}
		out, changed, err := NormalizeText(string(data), allow, move)
		if errors.Is(err, apperr.ErrMalformedInput) {
			s.logger.Warn("normalize: skipped", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return count, fmt.Errorf("noteservice: normalize %s: %w", m.Path, err)
		}
		if !changed {
			continue
		}
		if err := s.store.Write(m.Path, []byte(out)); err != nil {
			return count, err
		}
		s.logger.Debug("normalize: rewrote", slog.String("path", m.Path))
		count++
	}
	if count > 0 {
		// rewritten notes invalidate cached scans
		s.flush()
	}
	s.logger.Info("normalize: complete", slog.Int("notes", count))
	return count, nil
}

// NormalizeText rewrites one note. Inline values are merged into the
// frontmatter: existing keys are extended where they stand, new keys follow
// them and every other entry is left as written. Keys holding a nested
// mapping are not merged and their annotations stay in the body. changed is
// false when there is nothing to merge or remove.
func NormalizeText(text string, allow []*regexp.Regexp, move bool) (string, bool, error) {
	doc, err := frontmatter.Parse(text)
	if err != nil {
		return "", false, err
	}
	keys, inline := extract.InlineProperties(doc.Body, allow)

	merged := make(map[string]bool, len(keys))
	var update []string
	values := make(map[string][]string, len(keys))
	for _, k := range keys {
		if !doc.Mergeable(k) {
			continue
		}
		merged[k] = true
		have := frontmatter.Strings(doc.Fields[k])
		if k == "tags" {
			have = frontmatter.Tags(doc.Fields[k])
		}
		next := slices.Clone(have)
		for _, v := range inline[k] {
			if !slices.Contains(next, v) {
				next = append(next, v)
			}
		}
		if len(next) > len(have) {
			update = append(update, k)
			values[k] = next
		}
	}
	if len(merged) == 0 || (len(update) == 0 && !move) {
		return text, false, nil
	}

	body := doc.Body
	if move {
		body = extract.StripInlineFunc(body, func(key string) bool { return merged[key] })
	}
	if len(update) == 0 && doc.Present {
		// only the body changes
		out := text[:len(text)-len(doc.Body)] + body
		return out, out != text, nil
	}
	out, err := doc.Set(update, values, body)
	if err != nil {
		return "", false, err
	}
	return out, out != text, nil
}

func (s *Service) flush() {
	if s.cache != nil {
		s.cache.Flush()
	}
}
