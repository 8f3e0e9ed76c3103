package pyramid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/probe"
)

// fakeProber reports sizes from a table keyed by disk path.
type fakeProber map[string]probe.Size

func (f fakeProber) Probe(p string) (probe.Size, error) {
	s, ok := f[p]
	if !ok {
		return probe.Size{}, diagnostic.Probef(errors.New("no such image"), p)
	}

	return s, nil
}

func sources(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, Source{Path: p, Disk: "/disk/" + p})
	}

	return out
}

func TestParseName(t *testing.T) {
	tests := []struct {
		path   string
		name   string
		size   int
		isBase bool
	}{
		{"hero.png", "hero", 2160, true},
		{"hero.4k.png", "hero", 2160, true},
		{"hero.1080.png", "hero", 1080, false},
		{"ui/icons/star.256.webp", "ui/icons/star", 256, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			name, size, isBase, err := ParseName(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.size, size)
			assert.Equal(t, tt.isBase, isBase)
		})
	}
}

func TestParseNameErrors(t *testing.T) {
	for _, p := range []string{
		"hero.lowres.png",
		"hero.0.png",
		"hero.-720.png",
		"hero",
		"a.b.1080.png",
		".hidden.png",
	} {
		t.Run(p, func(t *testing.T) {
			_, _, _, err := ParseName(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagnostic.ErrConfig))
			assert.Contains(t, err.Error(), "unrecognized image extension: "+p)
		})
	}
}

func TestGroup(t *testing.T) {
	prober := fakeProber{
		"/disk/hero.png":       {Width: 3000, Height: 2000},
		"/disk/hero.1080.png":  {Width: 1620, Height: 1080},
		"/disk/hero.4k.png":    {Width: 3840, Height: 2160},
		"/disk/bg/sky.720.png": {Width: 1280, Height: 720},
		"/disk/bg/sky.360.png": {Width: 640, Height: 360},
	}

	pyramids, images, err := Group(sources(
		"hero.png",
		"hero.1080.png",
		"bg/sky.720.png",
		"hero.4k.png",
		"bg/sky.360.png",
	), prober)
	require.NoError(t, err)

	require.Len(t, pyramids, 2)

	hero := pyramids[0]
	assert.Equal(t, "hero", hero.Name)
	assert.Equal(t, "hero.4k.png", hero.BasePath)
	assert.Equal(t, 3840, hero.Width)
	assert.Equal(t, 2160, hero.Height)
	assert.Equal(t, []Level{{Size: 1080, Path: "hero.1080.png"}}, hero.Sizes)

	sky := pyramids[1]
	assert.Equal(t, "bg/sky", sky.Name)
	assert.Empty(t, sky.BasePath)
	assert.Zero(t, sky.Width)
	// Discovery order, not sorted.
	assert.Equal(t, []Level{{Size: 720, Path: "bg/sky.720.png"}, {Size: 360, Path: "bg/sky.360.png"}}, sky.Sizes)

	assert.Equal(t, []Image{
		{Path: "hero.1080.png", Size: 1080, Width: 1620, Height: 1080},
		{Path: "bg/sky.720.png", Size: 720, Width: 1280, Height: 720},
		{Path: "bg/sky.360.png", Size: 360, Width: 640, Height: 360},
	}, images)
}

func TestGroupPlainBase(t *testing.T) {
	prober := fakeProber{"/disk/hero.png": {Width: 100, Height: 50}}

	pyramids, images, err := Group(sources("hero.png"), prober)
	require.NoError(t, err)

	require.Len(t, pyramids, 1)
	assert.Equal(t, Pyramid{Name: "hero", BasePath: "hero.png", Width: 100, Height: 50, Sizes: []Level{}}, pyramids[0])
	assert.Empty(t, images)
}

func TestGroupExplicitBaseWins(t *testing.T) {
	prober := fakeProber{
		"/disk/hero.png":      {Width: 30, Height: 20},
		"/disk/hero.1080.png": {Width: 32, Height: 18},
		"/disk/hero.4k.png":   {Width: 64, Height: 36},
	}

	for _, order := range [][]string{
		{"hero.1080.png", "hero.4k.png", "hero.png"},
		{"hero.png", "hero.1080.png", "hero.4k.png"},
	} {
		pyramids, _, err := Group(sources(order...), prober)
		require.NoError(t, err)
		require.Len(t, pyramids, 1)

		assert.Equal(t, "hero.4k.png", pyramids[0].BasePath, "order %v", order)
		assert.Equal(t, 64, pyramids[0].Width)
		assert.Equal(t, 36, pyramids[0].Height)
	}
}

func TestGroupErrors(t *testing.T) {
	prober := fakeProber{"/disk/hero.png": {Width: 1, Height: 1}}

	_, _, err := Group(sources("hero.png", "hero.lowres.png"), prober)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized image extension: hero.lowres.png")

	_, _, err = Group(sources("missing.1080.png"), prober)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.ErrProbe))
}
