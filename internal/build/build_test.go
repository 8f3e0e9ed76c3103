package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/fixture"
	"asset-registry/internal/gen"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testManifest = `
root: assets
variants:
  - id: low
    path: assets-low
    base: base
    scale: 0.5
patterns:
  - pattern: "images/**/*.png"
    type: Image
    filter: linear
  - pattern: "text/*.txt"
    type: Text
  - pattern: "pyr/*.png"
    type: Pyramid
`

// project writes a manifest and a small asset tree and returns a config
// pointing at it.
func project(t *testing.T) Config {
	t.Helper()

	dir := t.TempDir()

	fixture.File(t, filepath.Join(dir, "assets.yaml"), testManifest)
	fixture.PNG(t, filepath.Join(dir, "assets", "images", "hero.png"), 40, 20)
	fixture.PNG(t, filepath.Join(dir, "assets", "images", "ui", "button.png"), 8, 8)
	fixture.File(t, filepath.Join(dir, "assets", "text", "intro.txt"), "hello")
	fixture.PNG(t, filepath.Join(dir, "assets-low", "images", "hero.png"), 20, 10)
	fixture.PNG(t, filepath.Join(dir, "assets", "pyr", "sky.png"), 16, 9)
	fixture.PNG(t, filepath.Join(dir, "assets", "pyr", "sky.1080.png"), 8, 4)

	cfg := DefaultConfig()
	cfg.Input = filepath.Join(dir, "assets.yaml")
	cfg.OutputDir = filepath.Join(dir, "gen")
	cfg.Jobs = 2

	return cfg
}

func statuses(r *Report) map[string]gen.Status {
	out := make(map[string]gen.Status, len(r.Files))
	for _, f := range r.Files {
		out[f.Filename] = f.Status
	}

	return out
}

func TestRun_GeneratesAllArtifacts(t *testing.T) {
	cfg := project(t)

	report, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]gen.Status{
		gen.HeaderFile:   gen.StatusWritten,
		gen.SourceFile:   gen.StatusWritten,
		gen.ManifestFile: gen.StatusWritten,
		gen.PyramidsFile: gen.StatusWritten,
	}, statuses(report))

	reg := report.Registry
	require.Equal(t, 3, reg.Len())
	assert.Equal(t, "images/hero.png", reg.Assets()[0].RelativePath)
	assert.Equal(t, "images/ui/button.png", reg.Assets()[1].RelativePath)
	assert.Equal(t, "text/intro.txt", reg.Assets()[2].RelativePath)

	low := reg.Entry(1, 0)
	require.NotNil(t, low)
	require.NotNil(t, low.Image)
	assert.Equal(t, 40, low.Image.LogicalWidth)
	assert.Equal(t, 20, low.Image.LogicalHeight)
	assert.InDelta(t, 0.5, low.Image.Scale, 1e-9)
	assert.Nil(t, reg.Entry(1, 1), "button only exists in the base root")

	require.Len(t, report.Pyramids, 1)
	assert.Equal(t, "assets/pyr/sky", report.Pyramids[0].Name)

	source, err := os.ReadFile(filepath.Join(cfg.OutputDir, gen.SourceFile))
	require.NoError(t, err)
	assert.Contains(t, string(source), `"assets-low/images/hero.png", AssetProperties(40, 20, 20, 10, 0.5f)`)
}

func TestRun_SecondRunWritesNothing(t *testing.T) {
	cfg := project(t)

	r, err := NewRunner(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Count(gen.StatusWritten))
	assert.Equal(t, 4, report.Count(gen.StatusSkipped))
}

func TestRun_RewritesOnlyChangedFiles(t *testing.T) {
	cfg := project(t)
	dir := filepath.Dir(cfg.Input)

	r, err := NewRunner(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	// Same asset set, different raw size: tables change, ids do not.
	fixture.PNG(t, filepath.Join(dir, "assets-low", "images", "hero.png"), 10, 5)

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]gen.Status{
		gen.HeaderFile:   gen.StatusSkipped,
		gen.SourceFile:   gen.StatusWritten,
		gen.ManifestFile: gen.StatusWritten,
		gen.PyramidsFile: gen.StatusSkipped,
	}, statuses(report))

	low := report.Registry.Entry(1, 0)
	assert.InDelta(t, 0.25, low.Image.Scale, 1e-9)
}

func TestRun_DryRun(t *testing.T) {
	cfg := project(t)
	cfg.DryRun = true

	report, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Count(gen.StatusStale))
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRun_PyramidPrefersExplicitBase(t *testing.T) {
	cfg := project(t)
	dir := filepath.Dir(cfg.Input)

	fixture.PNG(t, filepath.Join(dir, "assets", "pyr", "hero.png"), 30, 20)
	fixture.PNG(t, filepath.Join(dir, "assets", "pyr", "hero.1080.png"), 32, 18)
	fixture.PNG(t, filepath.Join(dir, "assets", "pyr", "hero.4k.png"), 64, 36)

	report, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	var found bool

	for _, p := range report.Pyramids {
		if p.Name != "assets/pyr/hero" {
			continue
		}

		found = true

		assert.Equal(t, "assets/pyr/hero.4k.png", p.BasePath)
		assert.Equal(t, 64, p.Width)
		assert.Equal(t, 36, p.Height)
	}

	assert.True(t, found, "hero pyramid missing")
}

func TestRun_GoTarget(t *testing.T) {
	cfg := project(t)
	cfg.Generator.Target = gen.TargetGo
	cfg.Generator.PackageName = "gameassets"

	report, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]gen.Status{
		gen.GoFile:       gen.StatusWritten,
		gen.ManifestFile: gen.StatusWritten,
		gen.PyramidsFile: gen.StatusWritten,
	}, statuses(report))
}

func TestRun_FailureLeavesOutputUntouched(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, dir string)
		kind   error
	}{
		{
			name: "unknown base",
			mutate: func(t *testing.T, dir string) {
				fixture.File(t, filepath.Join(dir, "assets.yaml"), `
variants:
  - path: assets-low
    base: nowhere
    scale: 0.5
patterns:
  - pattern: "**/*.png"
    type: Image
`)
			},
			kind: diagnostic.ErrConfig,
		},
		{
			name: "corrupt image",
			mutate: func(t *testing.T, dir string) {
				fixture.File(t, filepath.Join(dir, "assets", "images", "broken.png"), "not a png")
			},
			kind: diagnostic.ErrProbe,
		},
		{
			name: "bad pyramid name",
			mutate: func(t *testing.T, dir string) {
				fixture.PNG(t, filepath.Join(dir, "assets", "pyr", "sky.huge.png"), 2, 2)
			},
			kind: diagnostic.ErrConfig,
		},
		{
			name: "missing manifest",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, "assets.yaml")))
			},
			kind: diagnostic.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := project(t)
			tt.mutate(t, filepath.Dir(cfg.Input))

			_, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assert.NoDirExists(t, cfg.OutputDir)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	cfg := project(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, zaptest.NewLogger(t))
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, cfg.OutputDir)
}
