package registry

import (
	"asset-registry/internal/manifest"
)

// AssetRecord is the identity of one logical asset, shared by every root.
type AssetRecord struct {
	// ID is the stable sequential identifier.
	ID int
	// RelativePath is the path below the matching root, slash-separated.
	RelativePath string
	// Name is the identifier emitted for the asset in generated code.
	Name string
	// Type is the asset type of the pattern that first matched the path.
	Type manifest.AssetType
}

// Image holds the resolved dimensions of an image entry.
type Image struct {
	RawWidth      int
	RawHeight     int
	LogicalWidth  int
	LogicalHeight int
	// Scale is the ratio of raw to logical size.
	Scale float64
}

// Entry is one root's copy of a logical asset.
type Entry struct {
	// Path is the file path relative to the manifest directory,
	// slash-separated.
	Path string
	// LookupPaths are the keys the asset can be looked up by at runtime.
	LookupPaths []string
	// Type is the asset type of the pattern that matched the file.
	Type manifest.AssetType
	// Extra holds the matching pattern's extra properties.
	Extra manifest.Properties
	// Image is set for image assets once their dimensions are known.
	Image *Image
}

// Root is one search root: the implicit base root or a declared variant.
type Root struct {
	// ID is the root's manifest id ("base" for the implicit root).
	ID string
	// Name is the identifier emitted for the root in generated code.
	Name string
	// Dir is the root directory on disk.
	Dir string
	// Path is the root directory relative to the manifest, slash-separated.
	Path string
	// Base is the id of the root whose logical dimensions are inherited.
	Base string
	// Scale is the declared scale, if any.
	Scale *float64
	// Resolution is the declared vertical resolution, if any.
	Resolution *float64
	// IsBase marks the implicit first root.
	IsBase bool

	// entries is aligned to the registry's asset ids; nil slots are empty.
	entries []*Entry
}

// Entries returns the root's slots, aligned to asset ids. Empty slots are nil.
func (r *Root) Entries() []*Entry {
	return r.entries
}

// Len returns the number of slots, filled or not.
func (r *Root) Len() int {
	return len(r.entries)
}

// Filled returns the number of non-empty slots.
func (r *Root) Filled() int {
	n := 0

	for _, e := range r.entries {
		if e != nil {
			n++
		}
	}

	return n
}
