package gen

import (
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
)

// formatGo gofmts src. On failure the unformatted source is kept in a
// sidecar next to the output, and a failure to write it is joined to the
// format error.
func formatGo(outDir, filename string, src []byte) ([]byte, error) {
	formatted, err := format.Source(src)
	if err == nil {
		return formatted, nil
	}

	err = fmt.Errorf("formatting %s: %w", filename, err)

	if dbgErr := writeDebugUnformatted(outDir, filename, src); dbgErr != nil {
		return nil, errors.Join(err, fmt.Errorf("keeping unformatted %s: %w", filename, dbgErr))
	}

	return nil, err
}

// writeDebugUnformatted writes src to <name>.unformatted.go in outDir so
// the broken output can be inspected.
func writeDebugUnformatted(outDir, filename string, src []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, name), src, filePerm)
}
