// Package pyramid groups pre-rendered downscales of an image into pyramids.
//
// Files follow a "base + size suffix" naming convention:
//
//	hero.png        base image (reference resolution)
//	hero.4k.png     base image (reference resolution)
//	hero.1080.png   1080p rendition
//
// Each distinct directory + base name yields one Pyramid.
package pyramid

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/manifest"
	"asset-registry/internal/probe"
)

// baseSuffix marks an explicit reference-resolution base image.
const baseSuffix = "4k"

// Source is one discovered pyramid file.
type Source struct {
	// Path is the file path relative to the manifest, slash-separated.
	Path string
	// Disk is the file path on disk.
	Disk string
}

// Level is one available downscaled rendition.
type Level struct {
	Size int    `yaml:"size"`
	Path string `yaml:"path"`
}

// Pyramid is a base image plus its catalogued renditions.
type Pyramid struct {
	// Name is the directory plus base name shared by every file.
	Name     string  `yaml:"name"`
	BasePath string  `yaml:"base,omitempty"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Sizes    []Level `yaml:"sizes"`
}

// Image is a sized rendition recorded on its own.
type Image struct {
	Path   string `yaml:"path"`
	Size   int    `yaml:"size"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// ParseName splits a pyramid file path into its pyramid name and size. Base
// images report manifest.ReferenceResolution and isBase. Any suffix other
// than a positive integer or "4k" is a configuration error naming the path.
func ParseName(p string) (name string, size int, isBase bool, err error) {
	dir, file := path.Split(p)
	parts := strings.Split(file, ".")

	switch {
	case len(parts) == 2 && parts[0] != "":
		return dir + parts[0], manifest.ReferenceResolution, true, nil

	case len(parts) == 3 && parts[0] != "" && parts[1] == baseSuffix:
		return dir + parts[0], manifest.ReferenceResolution, true, nil

	case len(parts) == 3 && parts[0] != "":
		n, convErr := strconv.Atoi(parts[1])
		if convErr == nil && n > 0 {
			return dir + parts[0], n, false, nil
		}
	}

	return "", 0, false, diagnostic.Configf("unrecognized image extension: %s", p)
}

// Group builds one pyramid per distinct name, in first-discovery order.
// Base images set the pyramid's dimensions. An explicit "name.4k.ext" base
// wins over a plain "name.ext" whatever the discovery order; otherwise a
// later base overwrites an earlier one. Sized files are appended to Sizes in
// discovery order and also returned as standalone images.
func Group(files []Source, prober probe.Prober) ([]Pyramid, []Image, error) {
	var (
		pyramids []Pyramid
		images   []Image
	)

	index := make(map[string]int)
	explicit := make(map[int]bool)

	for _, f := range files {
		name, size, isBase, err := ParseName(f.Path)
		if err != nil {
			return nil, nil, err
		}

		dims, err := prober.Probe(f.Disk)
		if err != nil {
			return nil, nil, fmt.Errorf("pyramid %s: %w", name, err)
		}

		i, ok := index[name]
		if !ok {
			i = len(pyramids)
			index[name] = i
			pyramids = append(pyramids, Pyramid{Name: name, Sizes: []Level{}})
		}

		p := &pyramids[i]

		if isBase {
			if explicit[i] && !isExplicitBase(f.Path) {
				continue
			}

			explicit[i] = isExplicitBase(f.Path)
			p.BasePath = f.Path
			p.Width, p.Height = dims.Width, dims.Height

			continue
		}

		p.Sizes = append(p.Sizes, Level{Size: size, Path: f.Path})
		images = append(images, Image{Path: f.Path, Size: size, Width: dims.Width, Height: dims.Height})
	}

	return pyramids, images, nil
}

// isExplicitBase reports whether p carries the "4k" base suffix.
func isExplicitBase(p string) bool {
	parts := strings.Split(path.Base(p), ".")

	return len(parts) == 3 && parts[1] == baseSuffix
}
