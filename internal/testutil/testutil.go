// Package testutil provides shared test helpers for setting up note trees.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/zettel/internal/storage"
)

// Notes is a small linked note tree: one, two and three link to each
// other, one links to a missing id, and three carries tasks and properties.
var Notes = map[string]string{
	"20200101000001-one.md": "---\ntitle: One\ntags: alpha\n---\nSee [20200101000002] and [20209999999999].\n#beta @home\n",
	"20200101000002-two.md": "# Two\nBack to [20200101000001].\n- [ ] write tests due:2020-01-01\n",
	"sub/20200101000003-three.md": "# Three\n[[20200101000002-two]]\n(A) ship it +20200101000001\n[status:: draft] [owner:: me, you]\n",
}

// Vault writes files into a temporary directory and returns it with a
// storage provider rooted there.
func Vault(t *testing.T, files map[string]string, opts ...storage.FSOption) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
