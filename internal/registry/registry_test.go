package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-registry/internal/manifest"
)

func newRegistry(t *testing.T, ids ...string) *Registry {
	t.Helper()

	r := New()
	for _, id := range ids {
		_, err := r.AddRoot(&Root{ID: id})
		require.NoError(t, err)
	}

	return r
}

func TestLookupOrCreate(t *testing.T) {
	r := newRegistry(t, "base", "hd")

	id, created := r.LookupOrCreate("images/hero.png", manifest.AssetImage)
	assert.Equal(t, 0, id)
	assert.True(t, created)

	id, created = r.LookupOrCreate("fonts/main.ttf", manifest.AssetFont)
	assert.Equal(t, 1, id)
	assert.True(t, created)

	// Same relative path, any root: same id.
	id, created = r.LookupOrCreate("images/hero.png", manifest.AssetImage)
	assert.Equal(t, 0, id)
	assert.False(t, created)

	require.Len(t, r.Assets(), 2)
	assert.Equal(t, AssetRecord{
		ID:           1,
		RelativePath: "fonts/main.ttf",
		Name:         "FontsMainTtf",
		Type:         manifest.AssetFont,
	}, r.Assets()[1])

	got, ok := r.Lookup("fonts/main.ttf")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = r.Lookup("missing.png")
	assert.False(t, ok)
}

func TestRootsStayAligned(t *testing.T) {
	r := newRegistry(t, "base", "hd", "sd")

	for _, p := range []string{"a.png", "b.png", "a.png", "c/d.png"} {
		r.LookupOrCreate(p, manifest.AssetImage)

		for _, root := range r.Roots() {
			assert.Equal(t, r.Len(), root.Len(), "root %s", root.ID)
		}
	}

	assert.Equal(t, 3, r.Len())

	// A root added late still gets one slot per asset.
	idx, err := r.AddRoot(&Root{ID: "late"})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Roots()[idx].Len())
	assert.Equal(t, 0, r.Roots()[idx].Filled())
}

func TestSetFirstWriterWins(t *testing.T) {
	r := newRegistry(t, "base")
	id, _ := r.LookupOrCreate("a.png", manifest.AssetImage)

	first := &Entry{Path: "assets/a.png"}
	second := &Entry{Path: "assets/a.png", Type: manifest.AssetText}

	assert.True(t, r.Set(0, id, first))
	assert.False(t, r.Set(0, id, second))
	assert.Same(t, first, r.Entry(0, id))
	assert.Equal(t, 1, r.Roots()[0].Filled())
}

func TestAddRootDuplicate(t *testing.T) {
	r := newRegistry(t, "base")

	_, err := r.AddRoot(&Root{ID: "base"})
	require.Error(t, err)

	idx, ok := r.RootIndex("base")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "AssetRootBase", r.Roots()[0].Name)
}

func TestAssetName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"images/hero.png", "ImagesHeroPng"},
		{"ui/btn_2x.PNG", "UiBtn2XPng"},
		{"sfx/door-OPEN.ogg", "SfxDoorOpenOgg"},
		{"hero.1080.png", "Hero1080Png"},
		{"1up.png", "Asset1UpPng"},
		{"música/canción.ogg", "MúsicaCanciónOgg"},
		{"", "Asset"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, AssetName(tt.path))
		})
	}
}

func TestRootName(t *testing.T) {
	assert.Equal(t, "AssetRootBase", RootName("base"))
	assert.Equal(t, "AssetRootAssets1080", RootName("assets-1080"))
	assert.Equal(t, "AssetRootGfxHd", RootName("gfx/hd"))
}
