package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"asset-registry/internal/diagnostic"
)

// LoadFile loads, parses and validates a YAML manifest from the given path.
// Root and variant paths are resolved against the manifest's directory.
func LoadFile(p string) (*Manifest, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, diagnostic.IOf(err, "reading manifest %s", p)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	m.Dir = filepath.Dir(p)

	return m, nil
}

// Parse parses and validates YAML data into a Manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest

	err := yaml.Unmarshal(data, &m)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse manifest YAML: %w", diagnostic.ErrConfig, err)
	}

	// Apply defaults and normalize
	applyDefaults(&m)

	if err := Validate(&m).Err(); err != nil {
		return nil, err
	}

	return &m, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(m *Manifest) {
	if m.Root == "" {
		m.Root = DefaultRoot
	}

	for i := range m.Variants {
		v := &m.Variants[i]
		if v.ID == "" && v.Path != "" {
			v.ID = path.Clean(filepath.ToSlash(v.Path))
		}
	}
}

// Marshal serializes a Manifest to YAML.
func Marshal(m *Manifest) ([]byte, error) {
	return yaml.Marshal(m)
}
