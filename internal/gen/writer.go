package gen

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"asset-registry/internal/diagnostic"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Status is the outcome of emitting one file.
type Status int

// Emit outcomes.
const (
	// StatusWritten means the file was absent or different and was written.
	StatusWritten Status = iota
	// StatusSkipped means the file already held the generated content.
	StatusSkipped
	// StatusStale means the file differs but the emitter is a dry run.
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// EmitResult reports what happened to one file.
type EmitResult struct {
	Filename string
	Path     string
	Status   Status
}

// Emitter writes generated files only when their content changed, so
// unchanged outputs keep their modification time.
type Emitter struct {
	// Dir is the output directory.
	Dir string
	// DryRun reports stale files instead of writing them.
	DryRun bool
}

// Emit writes file unless the existing copy is byte-identical.
func (e *Emitter) Emit(file GeneratedFile) (EmitResult, error) {
	res := EmitResult{
		Filename: file.Filename,
		Path:     filepath.Join(e.Dir, file.Filename),
	}

	existing, err := os.ReadFile(res.Path)

	switch {
	case err == nil && bytes.Equal(existing, file.Content):
		res.Status = StatusSkipped

		return res, nil

	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return res, diagnostic.IOf(err, "reading %s", res.Path)
	}

	if e.DryRun {
		res.Status = StatusStale

		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(res.Path), dirPerm); err != nil {
		return res, diagnostic.IOf(err, "creating output directory")
	}

	if err := os.WriteFile(res.Path, file.Content, filePerm); err != nil {
		return res, diagnostic.IOf(err, "writing file %s", file.Filename)
	}

	res.Status = StatusWritten

	return res, nil
}

// WriteFiles emits all generated files to the output directory, creating it
// if it doesn't exist. Files whose content is unchanged are left untouched.
func WriteFiles(files []GeneratedFile, outputDir string) ([]EmitResult, error) {
	return (&Emitter{Dir: outputDir}).EmitAll(files)
}

// EmitAll emits files in order and stops at the first failure.
func (e *Emitter) EmitAll(files []GeneratedFile) ([]EmitResult, error) {
	results := make([]EmitResult, 0, len(files))

	for _, file := range files {
		res, err := e.Emit(file)
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
}
