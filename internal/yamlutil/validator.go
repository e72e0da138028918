// Package yamlutil provides YAML syntax validation used before config
// parsing, so syntax errors surface with line information instead of as
// opaque unmarshal failures.
package yamlutil

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidateSyntax validates YAML syntax by streaming through the document.
// It uses yaml.Decoder so large files are processed without loading the
// entire content into memory.
func ValidateSyntax(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// ValidateFile validates the YAML syntax of a file at the given path.
// Returns nil if valid, or an error with line information on failure.
func ValidateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if err := ValidateSyntax(f); err != nil {
		return fmt.Errorf("YAML syntax error in %s: %w", path, err)
	}
	return nil
}

// FileExists returns true if the path exists and is readable.
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
