package manifest

import (
	"path"
	"path/filepath"
)

const (
	// DefaultRoot is the base asset directory when the manifest omits "root".
	DefaultRoot = "assets"
	// BaseRootID is the id of the implicit first root.
	BaseRootID = "base"
	// ReferenceResolution is the vertical resolution all logical dimensions
	// are normalized to.
	ReferenceResolution = 2160
)

// Manifest represents the root of a YAML asset manifest.
type Manifest struct {
	// Root is the base asset directory, relative to the manifest file.
	Root string `yaml:"root" validate:"required"`

	// Scale optionally overrides the scale reported for the base root.
	Scale *float64 `yaml:"scale,omitempty" validate:"omitempty,gt=0"`

	// Variants are additional search roots holding the same assets at other
	// resolutions, in declaration order.
	Variants []Variant `yaml:"variants,omitempty" validate:"dive"`

	// Patterns declare the classes of files to discover, in declaration order.
	Patterns []Pattern `yaml:"patterns" validate:"required,min=1,dive"`

	// Dir is the directory containing the manifest. Root and variant paths
	// are resolved against it. Set by LoadFile.
	Dir string `yaml:"-"`

	// legacy is set when the manifest was a bare list of patterns.
	legacy bool
}

// Variant declares one additional search root.
type Variant struct {
	// ID names the variant for base references. Defaults to Path.
	ID string `yaml:"id,omitempty"`

	// Path is the variant directory, relative to the manifest file.
	Path string `yaml:"path" validate:"required"`

	// Base names an earlier-resolved root whose logical dimensions this
	// variant inherits.
	Base string `yaml:"base,omitempty"`

	// Scale is the variant's raw-to-logical ratio.
	Scale *float64 `yaml:"scale,omitempty" validate:"omitempty,gt=0"`

	// Resolution is the variant's vertical resolution; the ratio against
	// ReferenceResolution becomes its scale.
	Resolution *float64 `yaml:"resolution,omitempty" validate:"omitempty,gt=0"`
}

// Pattern declares one class of files to discover.
type Pattern struct {
	// Pattern is a glob relative to each root; "**" matches recursively.
	Pattern string `yaml:"pattern" validate:"required"`

	// TypeName is the asset type as written in the manifest.
	TypeName string `yaml:"type" validate:"required"`

	// Type is the parsed TypeName. Set by Validate.
	Type AssetType `yaml:"-"`

	// Extra holds every other key of the pattern, in declaration order.
	Extra Properties `yaml:"-"`
}

// Property is one manifest-declared extra key/value pair.
type Property struct {
	Key   string
	Value any
}

// Properties is an ordered set of extra properties.
type Properties []Property

// Get returns the value stored under key.
func (p Properties) Get(key string) (any, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}

	return nil, false
}

// RootDir returns the base root directory on disk.
func (m *Manifest) RootDir() string {
	return filepath.Join(m.Dir, m.Root)
}

// VariantDir returns the directory of variant v on disk.
func (m *Manifest) VariantDir(v *Variant) string {
	return filepath.Join(m.Dir, v.Path)
}

// RootPath returns the slash-separated base root path as written in the
// manifest.
func (m *Manifest) RootPath() string {
	return path.Clean(filepath.ToSlash(m.Root))
}

// IsLegacy reports whether the manifest used the bare pattern list format.
func (m *Manifest) IsLegacy() bool {
	return m.legacy
}

// SlashPath returns the slash-separated, cleaned variant path.
func (v *Variant) SlashPath() string {
	return path.Clean(filepath.ToSlash(v.Path))
}
