package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()

	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func rels(ms []Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Rel)
	}

	return out
}

func TestGlobRecursive(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"images/b.png",
		"images/a.png",
		"images/ui/deep/c.png",
		"images/readme.txt",
		"top.png",
	)

	ms, err := FS{}.Glob(root, "images/**/*.png")
	require.NoError(t, err)

	assert.Equal(t, []string{"images/a.png", "images/b.png", "images/ui/deep/c.png"}, rels(ms))
	assert.Equal(t, filepath.Join(root, "images", "a.png"), ms[0].Path)
}

func TestGlobSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "dir.png/inner.txt", "file.png")

	ms, err := FS{}.Glob(root, "*.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"file.png"}, rels(ms))
}

func TestGlobMissingRoot(t *testing.T) {
	ms, err := FS{}.Glob(filepath.Join(t.TempDir(), "absent"), "**/*.png")
	require.NoError(t, err)
	assert.Empty(t, ms)
}
