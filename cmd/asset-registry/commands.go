package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"asset-registry/internal/build"
	"asset-registry/internal/gen"
	"asset-registry/internal/manifest"
	"asset-registry/internal/registry"
	"asset-registry/internal/watch"
)

var (
	watchMode bool
	dump      bool
)

// genCmd generates and writes changed artifacts.
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate asset tables, writing only files that changed",
	Args:  cobra.NoArgs,
	RunE:  runGen,
}

// checkCmd verifies the artifacts without writing them.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Exit non-zero if any generated file is out of date",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runGen(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	runner, err := build.NewRunner(cfg, logger)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx)
	if err != nil && !watchMode {
		return err
	}

	if err != nil {
		logger.Error("initial generation failed", zap.Error(err))
	}

	if report != nil {
		logger.Info("generation finished",
			zap.Int("assets", report.Registry.Len()),
			zap.Int("written", report.Count(gen.StatusWritten)),
			zap.Int("unchanged", report.Count(gen.StatusSkipped)))

		if dump {
			if err := dumpReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		}
	}

	if !watchMode {
		return nil
	}

	return watchAndRegenerate(ctx, runner, report)
}

// dumpReport prints the normalized manifest followed by the resolved
// registry.
func dumpReport(w io.Writer, report *build.Report) error {
	m, err := manifest.Marshal(report.Manifest)
	if err != nil {
		return fmt.Errorf("dumping manifest: %w", err)
	}

	fmt.Fprintf(w, "# manifest\n%s\n# registry\n%s", m, spew.Sdump(report.Registry))

	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	checkCfg := cfg
	checkCfg.DryRun = true

	report, err := build.Run(ctx, checkCfg, logger)
	if err != nil {
		return err
	}

	stale := report.Count(gen.StatusStale)
	if stale > 0 {
		for _, f := range report.Files {
			if f.Status == gen.StatusStale {
				fmt.Fprintln(cmd.OutOrStdout(), "stale:", f.Path)
			}
		}

		return fmt.Errorf("%w (%d of %d)", errStale, stale, len(report.Files))
	}

	logger.Info("generated files are up to date", zap.Int("files", len(report.Files)))

	return nil
}

// watchAndRegenerate watches the manifest and every root until interrupted.
func watchAndRegenerate(ctx context.Context, runner *build.Runner, report *build.Report) error {
	rc := runner.Config()

	opts := []watch.Option{}
	for _, name := range []string{gen.HeaderFile, gen.SourceFile, gen.GoFile, gen.ManifestFile, gen.PyramidsFile} {
		opts = append(opts, watch.WithIgnore(filepath.Join(rc.OutputDir, name)))
	}

	w, err := watch.New(logger, opts...)
	if err != nil {
		return err
	}

	if err := w.AddFile(rc.Input); err != nil {
		return err
	}

	addRoots := func(reg *registry.Registry) {
		for _, root := range reg.Roots() {
			if err := w.AddTree(root.Dir); err != nil {
				logger.Warn("cannot watch root", zap.String("root", root.ID), zap.Error(err))
			}
		}
	}

	// Without a resolved registry the roots are unknown; the manifest
	// directory stands in until a run succeeds.
	if report != nil {
		addRoots(report.Registry)
	} else if err := w.AddTree(filepath.Dir(rc.Input)); err != nil {
		return err
	}

	logger.Info("watching for changes", zap.String("input", rc.Input))

	return w.Run(ctx, func(ctx context.Context) error {
		report, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		// Roots may have been added to the manifest.
		addRoots(report.Registry)

		return nil
	})
}

func init() {
	spew.Config.Indent = "  "
	spew.Config.DisablePointerAddresses = true
	spew.Config.SortKeys = true
}
