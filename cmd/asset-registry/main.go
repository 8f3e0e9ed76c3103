// Package main provides the CLI entrypoint for asset-registry.
//
// asset-registry reads an asset manifest, resolves every asset across the
// base root and its resolution variants, and emits:
//   - an asset table for C++ (Assets.h, Assets.cpp) or Go (assets_gen.go)
//   - asset_manifest.yaml for runtime loaders
//   - pyramids.yaml describing pre-rendered image pyramids
//
// Outputs are only rewritten when their content changes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"asset-registry/internal/build"
	"asset-registry/internal/gen"
)

var (
	// Global flags
	verbose bool
	cfg     = build.DefaultConfig()
	target  = string(gen.TargetCpp)

	// Logger
	logger *zap.Logger
)

// errStale is returned by check when any artifact is out of date.
var errStale = errors.New("generated files are out of date")

// rootCmd generates by default.
var rootCmd = &cobra.Command{
	Use:   "asset-registry",
	Short: "Generate asset tables from an asset manifest",
	Long: `asset-registry assigns every file matched by the manifest patterns a stable
id, resolves image dimensions across resolution variants, and writes the
generated tables only when they change.

Running without a subcommand is the same as "asset-registry gen".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error

		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		t, err := gen.ParseTarget(target)
		if err != nil {
			return err
		}

		cfg.Generator.Target = t

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGen,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&cfg.Input, "input", "i", cfg.Input, "Asset manifest")
	flags.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "Directory for generated files")
	flags.StringVar(&target, "target", target, `Source target: "cpp" or "go"`)
	flags.StringVar(&cfg.Generator.PackageName, "package", cfg.Generator.PackageName, "Package of the generated Go file")
	flags.StringVar(&cfg.Generator.Namespace, "namespace", cfg.Generator.Namespace, "Namespace of the generated C++ code")
	flags.StringVar(&cfg.Generator.RuntimeHeader, "runtime-header", cfg.Generator.RuntimeHeader,
		"Header declaring AssetInfo, included by the generated C++ header")
	flags.IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "Concurrent image probes")

	for _, cmd := range []*cobra.Command{rootCmd, genCmd} {
		cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regenerate whenever inputs change")
		cmd.Flags().BoolVar(&dump, "dump", false, "Print the resolved registry")
	}

	rootCmd.AddCommand(genCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "asset-registry:", err)
		os.Exit(1)
	}
}
