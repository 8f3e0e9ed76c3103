package manifest

import (
	"fmt"

	"asset-registry/internal/match"
)

//go:generate go tool stringer -type=AssetType -trimprefix=Asset

// AssetType is the declared kind of the files a pattern matches.
type AssetType int

const (
	AssetImage AssetType = iota
	AssetAtlas
	AssetFont
	AssetText
	AssetSpineSkeleton
	AssetSound
	AssetMusic
	// AssetPyramid files are grouped into image pyramids instead of being
	// registered as individual assets.
	AssetPyramid
)

// AssetTypes lists every known asset type in declaration order.
var AssetTypes = []AssetType{
	AssetImage,
	AssetAtlas,
	AssetFont,
	AssetText,
	AssetSpineSkeleton,
	AssetSound,
	AssetMusic,
	AssetPyramid,
}

// ParseAssetType returns the asset type with the given manifest name.
func ParseAssetType(name string) (AssetType, error) {
	for _, t := range AssetTypes {
		if t.String() == name {
			return t, nil
		}
	}

	names := make([]string, len(AssetTypes))
	for i, t := range AssetTypes {
		names[i] = t.String()
	}

	return 0, fmt.Errorf("unknown asset type %q%s", name, match.Hint(name, names))
}

// IsImage reports whether assets of this type carry pixel dimensions.
func (t AssetType) IsImage() bool {
	return t == AssetImage
}

// MarshalYAML writes the manifest name of the type.
func (t AssetType) MarshalYAML() (any, error) {
	return t.String(), nil
}
