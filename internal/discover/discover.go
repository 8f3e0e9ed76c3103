// Package discover finds the files a manifest pattern matches under a root.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"

	"asset-registry/internal/diagnostic"
)

// Match is one file found under a root.
type Match struct {
	// Path is the file path on disk.
	Path string
	// Rel is the path relative to the root, slash-separated.
	Rel string
}

// Globber expands a pattern relative to a root directory.
type Globber interface {
	Glob(root, pattern string) ([]Match, error)
}

// FS is a Globber over the real filesystem. "**" matches any number of
// directories. Matches are regular files only, sorted by relative path.
type FS struct{}

// Glob implements Globber. A missing root yields no matches.
func (FS) Glob(root, pattern string) ([]Match, error) {
	full := filepath.Join(escapeMeta(root), filepath.FromSlash(pattern))

	paths, err := doublestar.Glob(full)
	if errors.Is(err, doublestar.ErrBadPattern) {
		return nil, diagnostic.Configf("bad pattern %q", pattern)
	}

	if err != nil {
		return nil, diagnostic.IOf(err, "glob %q under %s", pattern, root)
	}

	matches := make([]Match, 0, len(paths))

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, diagnostic.IOf(err, "stat %s", p)
		}

		if info.IsDir() {
			continue
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", p, err)
		}

		matches = append(matches, Match{Path: p, Rel: filepath.ToSlash(rel)})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Rel < matches[j].Rel
	})

	return matches, nil
}

// escapeMeta escapes glob metacharacters so a root directory is matched
// literally.
func escapeMeta(s string) string {
	if filepath.Separator == '\\' {
		return s
	}

	var b strings.Builder

	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}
