package registry

import (
	"fmt"

	"asset-registry/internal/manifest"
)

// Registry maps logical relative paths to stable sequential ids and keeps one
// slot array per root aligned to those ids. It only grows.
type Registry struct {
	assets    []AssetRecord
	byPath    map[string]int
	roots     []*Root
	rootIndex map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byPath:    make(map[string]int),
		rootIndex: make(map[string]int),
	}
}

// AddRoot registers a root and returns its index. The root starts with one
// empty slot per known asset, so roots are normally added before the scan.
func (r *Registry) AddRoot(root *Root) (int, error) {
	if _, ok := r.rootIndex[root.ID]; ok {
		return 0, fmt.Errorf("duplicate root id %q", root.ID)
	}

	if root.Name == "" {
		root.Name = RootName(root.ID)
	}

	root.entries = make([]*Entry, len(r.assets))

	idx := len(r.roots)
	r.roots = append(r.roots, root)
	r.rootIndex[root.ID] = idx

	return idx, nil
}

// LookupOrCreate returns the id of relativePath, allocating the next id when
// the path is new. Allocation appends an empty slot to every root and a new
// record to the asset list. The returned bool reports whether the id was
// created by this call.
func (r *Registry) LookupOrCreate(relativePath string, t manifest.AssetType) (int, bool) {
	if id, ok := r.byPath[relativePath]; ok {
		return id, false
	}

	id := len(r.assets)
	r.byPath[relativePath] = id
	r.assets = append(r.assets, AssetRecord{
		ID:           id,
		RelativePath: relativePath,
		Name:         AssetName(relativePath),
		Type:         t,
	})

	for _, root := range r.roots {
		root.entries = append(root.entries, nil)
	}

	return id, true
}

// Lookup returns the id of relativePath if it has been seen.
func (r *Registry) Lookup(relativePath string) (int, bool) {
	id, ok := r.byPath[relativePath]
	return id, ok
}

// Set stores e in the given root's slot for id. The first entry stored in a
// slot wins; Set reports false and leaves the slot untouched when it is
// already filled.
func (r *Registry) Set(rootIdx, id int, e *Entry) bool {
	slots := r.roots[rootIdx].entries
	if slots[id] != nil {
		return false
	}

	slots[id] = e

	return true
}

// Entry returns the given root's entry for id, or nil if the slot is empty.
func (r *Registry) Entry(rootIdx, id int) *Entry {
	return r.roots[rootIdx].entries[id]
}

// Assets returns the global asset list in id order.
func (r *Registry) Assets() []AssetRecord {
	return r.assets
}

// Len returns the number of logical assets.
func (r *Registry) Len() int {
	return len(r.assets)
}

// Roots returns the roots in declaration order.
func (r *Registry) Roots() []*Root {
	return r.roots
}

// RootIndex returns the index of the root with the given id.
func (r *Registry) RootIndex(id string) (int, bool) {
	idx, ok := r.rootIndex[id]
	return idx, ok
}
