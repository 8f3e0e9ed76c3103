package probe

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"asset-registry/internal/diagnostic"
)

// DefaultCacheSize is the number of probe results kept by NewCached callers
// that have no better figure.
const DefaultCacheSize = 4096

type cacheKey struct {
	path    string
	modTime int64
	size    int64
}

// Cached remembers probe results keyed by path, modification time and file
// size, so repeated runs over an unchanged tree skip decoding. It is safe for
// concurrent use.
type Cached struct {
	next  Prober
	cache *lru.Cache[cacheKey, Size]
}

// NewCached wraps next with an LRU cache holding up to size results.
func NewCached(next Prober, size int) (*Cached, error) {
	cache, err := lru.New[cacheKey, Size](size)
	if err != nil {
		return nil, fmt.Errorf("creating probe cache: %w", err)
	}

	return &Cached{next: next, cache: cache}, nil
}

// Probe implements Prober. Failed probes are not cached.
func (c *Cached) Probe(path string) (Size, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Size{}, diagnostic.Probef(err, path)
	}

	key := cacheKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if s, ok := c.cache.Get(key); ok {
		return s, nil
	}

	s, err := c.next.Probe(path)
	if err != nil {
		return Size{}, err
	}

	c.cache.Add(key, s)

	return s, nil
}

// Len returns the number of cached results.
func (c *Cached) Len() int {
	return c.cache.Len()
}
