package report

import (
	"encoding/json"
	"io"
)

// WriteJSON serializes a result as the tool-consumable JSON document.
// The schema mirrors the result 1:1; identical inputs always produce
// byte-identical output.
func WriteJSON(w io.Writer, result Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ParseJSON decodes a previously written JSON report.
func ParseJSON(r io.Reader) (Result, error) {
	var result Result
	err := json.NewDecoder(r).Decode(&result)
	return result, err
}
