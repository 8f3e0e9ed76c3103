package resolve

import (
	"context"
	"fmt"
	"path"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/discover"
	"asset-registry/internal/manifest"
	"asset-registry/internal/probe"
	"asset-registry/internal/pyramid"
	"asset-registry/internal/registry"
)

// Options configures Build.
type Options struct {
	// Globber expands patterns. Defaults to discover.FS.
	Globber discover.Globber
	// Prober reads image dimensions. Defaults to probe.Header.
	Prober probe.Prober
	// Jobs bounds concurrent probes. Defaults to GOMAXPROCS.
	Jobs int
	// Logger receives per-asset decisions at debug level.
	Logger *zap.Logger
}

// Result is the outcome of Build.
type Result struct {
	// Registry holds every logical asset and each root's resolved entries.
	Registry *registry.Registry
	// Pyramids are the files matched by Pyramid patterns in the base root,
	// in pattern then discovery order.
	Pyramids []pyramid.Source
}

type probeJob struct {
	entry *registry.Entry
	disk  string
}

// Build discovers, identifies and resolves every asset of a manifest.
//
// Pass one walks patterns in declaration order, then roots in declaration
// order, then matches in globber order, assigning ids and filling each root's
// slots; image headers are then probed concurrently. Pass two computes
// logical sizes root by root, each root after the root it inherits from, so
// base lookups see a complete table whatever the manifest order.
func Build(ctx context.Context, m *manifest.Manifest, opts Options) (*Result, error) {
	opts = withDefaults(opts)

	reg, err := newRegistry(m)
	if err != nil {
		return nil, err
	}

	order, err := resolutionOrder(reg)
	if err != nil {
		return nil, err
	}

	res := &Result{Registry: reg}

	jobs, err := scan(ctx, m, reg, res, opts)
	if err != nil {
		return nil, err
	}

	if err := probeAll(ctx, jobs, opts); err != nil {
		return nil, err
	}

	if err := scaleAll(reg, order, opts.Logger); err != nil {
		return nil, err
	}

	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Globber == nil {
		opts.Globber = discover.FS{}
	}

	if opts.Prober == nil {
		opts.Prober = probe.Header{}
	}

	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return opts
}

// newRegistry creates a registry holding the implicit base root followed by
// the declared variants.
func newRegistry(m *manifest.Manifest) (*registry.Registry, error) {
	reg := registry.New()

	reference := float64(manifest.ReferenceResolution)

	_, err := reg.AddRoot(&registry.Root{
		ID:         manifest.BaseRootID,
		Dir:        m.RootDir(),
		Path:       m.RootPath(),
		Scale:      m.Scale,
		Resolution: &reference,
		IsBase:     true,
	})
	if err != nil {
		return nil, diagnostic.Configf("%v", err)
	}

	for i := range m.Variants {
		v := &m.Variants[i]

		_, err := reg.AddRoot(&registry.Root{
			ID:         v.ID,
			Dir:        m.VariantDir(v),
			Path:       v.SlashPath(),
			Base:       v.Base,
			Scale:      v.Scale,
			Resolution: v.Resolution,
		})
		if err != nil {
			return nil, diagnostic.Configf("variants[%d]: %v", i, err)
		}
	}

	return reg, nil
}

// scan is pass one. It returns the image entries that still need probing.
func scan(
	ctx context.Context,
	m *manifest.Manifest,
	reg *registry.Registry,
	res *Result,
	opts Options,
) ([]probeJob, error) {
	var jobs []probeJob

	for pi := range m.Patterns {
		p := &m.Patterns[pi]

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p.Type == manifest.AssetPyramid {
			base := reg.Roots()[0]

			matches, err := opts.Globber.Glob(base.Dir, p.Pattern)
			if err != nil {
				return nil, fmt.Errorf("patterns[%d]: %w", pi, err)
			}

			for _, match := range matches {
				res.Pyramids = append(res.Pyramids, pyramid.Source{
					Path: path.Join(base.Path, match.Rel),
					Disk: match.Path,
				})
			}

			continue
		}

		for ri, root := range reg.Roots() {
			matches, err := opts.Globber.Glob(root.Dir, p.Pattern)
			if err != nil {
				return nil, fmt.Errorf("patterns[%d] in root %q: %w", pi, root.ID, err)
			}

			opts.Logger.Debug("pattern matched",
				zap.String("pattern", p.Pattern),
				zap.String("root", root.ID),
				zap.Int("matches", len(matches)))

			for _, match := range matches {
				if prev, ok := reg.Lookup(match.Rel); ok && reg.Assets()[prev].Type != p.Type {
					opts.Logger.Warn("asset matched with a different type; the id keeps the first",
						zap.String("path", match.Rel),
						zap.Stringer("first", reg.Assets()[prev].Type),
						zap.Stringer("type", p.Type))
				}

				id, _ := reg.LookupOrCreate(match.Rel, p.Type)

				entry := &registry.Entry{
					Path:        path.Join(root.Path, match.Rel),
					LookupPaths: []string{match.Rel},
					Type:        p.Type,
					Extra:       p.Extra,
				}

				if !reg.Set(ri, id, entry) {
					opts.Logger.Debug("file already matched by an earlier pattern; keeping the first",
						zap.String("path", entry.Path),
						zap.String("pattern", p.Pattern))

					continue
				}

				if p.Type.IsImage() {
					entry.Image = &registry.Image{}
					jobs = append(jobs, probeJob{entry: entry, disk: match.Path})
				}
			}
		}
	}

	return jobs, nil
}

// probeAll fills the raw size of every job. Each job owns its entry, so the
// probes can run concurrently without touching shared state.
func probeAll(ctx context.Context, jobs []probeJob, opts Options) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			size, err := opts.Prober.Probe(job.disk)
			if err != nil {
				return err
			}

			job.entry.Image.RawWidth = size.Width
			job.entry.Image.RawHeight = size.Height

			return nil
		})
	}

	return g.Wait()
}

// scaleAll is pass two.
func scaleAll(reg *registry.Registry, order []int, logger *zap.Logger) error {
	for _, ri := range order {
		root := reg.Roots()[ri]

		baseIdx := -1
		if root.Base != "" {
			baseIdx, _ = reg.RootIndex(root.Base)
		}

		for id, e := range root.Entries() {
			if e == nil || e.Image == nil {
				continue
			}

			var inherited *registry.Image

			if baseIdx >= 0 {
				if be := reg.Entry(baseIdx, id); be != nil && be.Image != nil {
					inherited = be.Image
				}
			}

			if root.Base != "" && inherited == nil {
				logger.Debug("base root lacks asset; falling back to declared scale",
					zap.String("root", root.ID),
					zap.String("base", root.Base),
					zap.String("path", e.Path))
			}

			raw := probe.Size{Width: e.Image.RawWidth, Height: e.Image.RawHeight}

			img, err := Scale(raw, root, inherited)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Path, err)
			}

			*e.Image = img
		}
	}

	return nil
}
