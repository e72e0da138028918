package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/petra-ci/pipecheck/internal/errors"
)

// Format names a serialization format of the verification result.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJUnit Format = "junit"
)

// IsValid returns true for a known report format.
func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatJUnit
}

// filenames per format inside the output directory.
var formatFiles = map[Format]string{
	FormatJSON:  "verification-report.json",
	FormatJUnit: "verification-report.xml",
}

// Writer writes a verification result to the configured output files.
// Write failures are Reporting errors, distinct from verification failures
// at the exit-code boundary; the caller falls back to stdout.
type Writer struct {
	OutputDir string
	Formats   []Format
	SuiteName string
	// JUnitPath overrides the JUnit file location when set.
	JUnitPath string
}

// Write serializes the result in every configured format.
// Returns the paths written.
func (w *Writer) Write(result Result) ([]string, error) {
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return nil, errors.WrapWithMessage(err, errors.Reporting,
			"creating report output directory",
			"check report_generator.output_dir is writable")
	}

	var written []string
	for _, format := range w.Formats {
		path, err := w.writeOne(result, format)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (w *Writer) writeOne(result Result, format Format) (string, error) {
	name, ok := formatFiles[format]
	if !ok {
		return "", errors.NewConfigError(
			fmt.Sprintf("report_generator: unknown format %q", format),
			"use one of: json, junit")
	}

	path := filepath.Join(w.OutputDir, name)
	if format == FormatJUnit && w.JUnitPath != "" {
		path = w.JUnitPath
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.WrapWithMessage(err, errors.Reporting,
			fmt.Sprintf("creating report file %s", path),
			"check the output path is writable")
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		err = WriteJSON(f, result)
	case FormatJUnit:
		err = WriteJUnit(f, result, w.SuiteName)
	}
	if err != nil {
		return "", errors.WrapWithMessage(err, errors.Reporting,
			fmt.Sprintf("writing %s report", format))
	}
	return path, nil
}
