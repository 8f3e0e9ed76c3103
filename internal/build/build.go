// Package build runs the whole generation pipeline: load the manifest,
// resolve the registry, group pyramids, render artifacts and emit them.
package build

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"asset-registry/internal/discover"
	"asset-registry/internal/gen"
	"asset-registry/internal/manifest"
	"asset-registry/internal/probe"
	"asset-registry/internal/pyramid"
	"asset-registry/internal/registry"
	"asset-registry/internal/resolve"
)

// Config holds the pipeline settings.
type Config struct {
	// Input is the manifest path.
	Input string
	// OutputDir receives the generated artifacts.
	OutputDir string
	// Generator configures rendering. Its OutputDir is overridden by
	// OutputDir above.
	Generator gen.GeneratorConfig
	// Jobs bounds concurrent image probes.
	Jobs int
	// DryRun reports stale artifacts instead of writing them.
	DryRun bool
	// CacheSize is the number of probe results kept between runs. Zero
	// disables the cache.
	CacheSize int

	// Globber and Prober replace the filesystem implementations in tests.
	Globber discover.Globber
	Prober  probe.Prober
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Input:     "assets.yaml",
		OutputDir: ".",
		Generator: gen.DefaultGeneratorConfig(),
		Jobs:      runtime.GOMAXPROCS(0),
		CacheSize: probe.DefaultCacheSize,
	}
}

// Report summarizes one pipeline run.
type Report struct {
	// Manifest is the loaded manifest after defaults were applied.
	Manifest *manifest.Manifest
	// Registry is the resolved registry.
	Registry *registry.Registry
	// Pyramids are the grouped image pyramids.
	Pyramids []pyramid.Pyramid
	// Files lists every artifact and what happened to it.
	Files []gen.EmitResult
}

// Count returns the number of files with the given status.
func (r *Report) Count(s gen.Status) int {
	n := 0

	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}

	return n
}

// Runner runs the pipeline repeatedly with a shared probe cache.
type Runner struct {
	config Config
	logger *zap.Logger
	prober probe.Prober
}

// NewRunner creates a Runner. Probe results are cached by path, size and
// modification time when cfg.CacheSize is positive.
func NewRunner(cfg Config, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	prober := cfg.Prober
	if prober == nil {
		prober = probe.Header{}
	}

	if cfg.CacheSize > 0 {
		cached, err := probe.NewCached(prober, cfg.CacheSize)
		if err != nil {
			return nil, err
		}

		prober = cached
	}

	return &Runner{config: cfg, logger: logger, prober: prober}, nil
}

// Run is a one-shot pipeline run.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) (*Report, error) {
	r, err := NewRunner(cfg, logger)
	if err != nil {
		return nil, err
	}

	return r.Run(ctx)
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config {
	return r.config
}

// Run loads the manifest and regenerates every artifact. All artifacts are
// rendered in memory before the first file is emitted, so a failing run
// leaves the output directory untouched.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	cfg := r.config

	m, err := manifest.LoadFile(cfg.Input)
	if err != nil {
		return nil, err
	}

	for _, w := range manifest.Validate(m).Warnings {
		r.logger.Warn(w.Message, zap.String("code", w.Code), zap.String("key", w.Key))
	}

	if m.IsLegacy() {
		r.logger.Debug("legacy manifest; globbing relative to the manifest directory",
			zap.String("input", cfg.Input))
	}

	res, err := resolve.Build(ctx, m, resolve.Options{
		Globber: cfg.Globber,
		Prober:  r.prober,
		Jobs:    cfg.Jobs,
		Logger:  r.logger,
	})
	if err != nil {
		return nil, err
	}

	pyramids, images, err := pyramid.Group(res.Pyramids, r.prober)
	if err != nil {
		return nil, err
	}

	genCfg := cfg.Generator
	genCfg.OutputDir = cfg.OutputDir

	files, err := gen.NewGenerator(genCfg).Generate(res.Registry, pyramids, images)
	if err != nil {
		return nil, fmt.Errorf("generating: %w", err)
	}

	var results []gen.EmitResult

	if cfg.DryRun {
		results, err = (&gen.Emitter{Dir: cfg.OutputDir, DryRun: true}).EmitAll(files)
	} else {
		results, err = gen.WriteFiles(files, cfg.OutputDir)
	}

	report := &Report{Manifest: m, Registry: res.Registry, Pyramids: pyramids, Files: results}

	for _, f := range results {
		if f.Status == gen.StatusSkipped {
			r.logger.Info(fmt.Sprintf("no change to %s; skipping", f.Filename))

			continue
		}

		r.logger.Info(f.Status.String(), zap.String("file", f.Path))
	}

	if err != nil {
		return report, err
	}

	r.logger.Debug("registry resolved",
		zap.Int("assets", res.Registry.Len()),
		zap.Int("roots", len(res.Registry.Roots())),
		zap.Int("pyramids", len(pyramids)))

	return report, nil
}
