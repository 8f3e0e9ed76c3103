package resolve

import (
	"math"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/manifest"
	"asset-registry/internal/probe"
	"asset-registry/internal/registry"
)

// Mode is how a root derives logical dimensions from raw pixels.
type Mode int

const (
	// ModeBase is the implicit first root: logical size is the raw size.
	ModeBase Mode = iota
	// ModeInherit copies logical size from the root named by Base.
	ModeInherit
	// ModeResolution divides by Resolution / ReferenceResolution.
	ModeResolution
	// ModeScale divides by the declared Scale.
	ModeScale
	// ModeNone means the root declares nothing to scale by.
	ModeNone
)

// ModeOf returns the derivation mode a root's declaration selects. A base
// reference wins over resolution, and resolution wins over scale; the others
// then only serve as the inheritance fallback.
func ModeOf(root *registry.Root) Mode {
	switch {
	case root.IsBase:
		return ModeBase
	case root.Base != "":
		return ModeInherit
	case root.Resolution != nil:
		return ModeResolution
	case root.Scale != nil:
		return ModeScale
	default:
		return ModeNone
	}
}

// Scale computes the logical size and scale of an image with the given raw
// size in root. inherited is the resolved image of the same asset in the
// root's base, or nil when the base has none; it is only consulted in
// ModeInherit. Logical dimensions are rounded to the nearest pixel.
func Scale(raw probe.Size, root *registry.Root, inherited *registry.Image) (registry.Image, error) {
	img := registry.Image{RawWidth: raw.Width, RawHeight: raw.Height}

	switch ModeOf(root) {
	case ModeBase:
		img.LogicalWidth, img.LogicalHeight = raw.Width, raw.Height
		img.Scale = 1

		if root.Scale != nil {
			if *root.Scale <= 0 {
				return img, diagnostic.Configf("root %q: scale must be greater than zero, got %v", root.ID, *root.Scale)
			}

			img.Scale = *root.Scale
		}

		return img, nil

	case ModeInherit:
		if inherited != nil {
			if inherited.LogicalHeight <= 0 {
				return img, diagnostic.Configf("root %q: base %q has zero logical height", root.ID, root.Base)
			}

			img.LogicalWidth, img.LogicalHeight = inherited.LogicalWidth, inherited.LogicalHeight
			img.Scale = float64(raw.Height) / float64(inherited.LogicalHeight)

			return img, nil
		}

		factor, err := fallbackFactor(root)
		if err != nil {
			return img, err
		}

		return divide(img, factor), nil

	case ModeResolution:
		ratio, err := resolutionRatio(root)
		if err != nil {
			return img, err
		}

		return divide(img, ratio), nil

	case ModeScale:
		if *root.Scale <= 0 {
			return img, diagnostic.Configf("root %q: scale must be greater than zero, got %v", root.ID, *root.Scale)
		}

		return divide(img, *root.Scale), nil

	default:
		return img, diagnostic.Configf("root %q declares none of base, scale or resolution", root.ID)
	}
}

// fallbackFactor is the factor a ModeInherit root divides by when its base
// lacks the asset: the declared scale, else the resolution ratio.
func fallbackFactor(root *registry.Root) (float64, error) {
	switch {
	case root.Scale != nil:
		if *root.Scale <= 0 {
			return 0, diagnostic.Configf("root %q: scale must be greater than zero, got %v", root.ID, *root.Scale)
		}

		return *root.Scale, nil

	case root.Resolution != nil:
		return resolutionRatio(root)

	default:
		return 0, diagnostic.Configf("root %q: base %q lacks the asset and no scale or resolution is declared to fall back on",
			root.ID, root.Base)
	}
}

func resolutionRatio(root *registry.Root) (float64, error) {
	if *root.Resolution <= 0 {
		return 0, diagnostic.Configf("root %q: resolution must be greater than zero, got %v", root.ID, *root.Resolution)
	}

	return *root.Resolution / manifest.ReferenceResolution, nil
}

func divide(img registry.Image, factor float64) registry.Image {
	img.LogicalWidth = int(math.Round(float64(img.RawWidth) / factor))
	img.LogicalHeight = int(math.Round(float64(img.RawHeight) / factor))
	img.Scale = factor

	return img
}
