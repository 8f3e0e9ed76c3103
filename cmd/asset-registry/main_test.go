package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-registry/internal/fixture"
	"asset-registry/internal/gen"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestCLI_CheckGenCheck(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "assets.yaml")
	output := filepath.Join(dir, "out")

	fixture.File(t, input, `
patterns:
  - pattern: "*.png"
    type: Image
`)
	fixture.PNG(t, filepath.Join(dir, "assets", "hero.png"), 4, 2)

	common := []string{"--input", input, "--output-dir", output}

	stdout, err := execute(t, append([]string{"check"}, common...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStale))
	assert.Contains(t, stdout, "stale: "+filepath.Join(output, gen.HeaderFile))
	assert.NoDirExists(t, output)

	_, err = execute(t, append([]string{"gen"}, common...)...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(output, gen.SourceFile))

	_, err = execute(t, append([]string{"check"}, common...)...)
	require.NoError(t, err)

	stdout, err = execute(t, append([]string{"gen", "--dump"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "HeroPng")
	assert.Contains(t, stdout, "# manifest\nroot: assets\n")
	assert.Contains(t, stdout, "type: Image")

	dump = false
}

func TestCLI_BadTarget(t *testing.T) {
	_, err := execute(t, "gen", "--target", "rust", "--input", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "rust"`)

	target = string(gen.TargetCpp)
}
