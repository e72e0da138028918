// Package logsource reads named log files and parses them into structured
// records. Each source declares a parser kind; unparsable lines are skipped
// and counted rather than failing the run.
package logsource

import "time"

// ParserKind identifies how lines of a source are parsed into fields.
type ParserKind string

const (
	// ParserRegex parses each line with a configuration-supplied regular
	// expression; parsed fields are the named-group captures.
	ParserRegex ParserKind = "regex"
	// ParserJSON parses each line as one JSON object.
	ParserJSON ParserKind = "json"
)

// IsValid returns true for a known parser kind.
func (p ParserKind) IsValid() bool {
	return p == ParserRegex || p == ParserJSON
}

// Source identifies one log stream. Name is the key criteria reference it by.
type Source struct {
	Name string
	Path string
	// Parser selects how lines are turned into fields.
	Parser ParserKind
	// Pattern is the regular expression for ParserRegex sources. Named
	// capture groups become record fields.
	Pattern string
	// TimestampField names a parsed field holding an RFC3339 timestamp to
	// promote into Record.Timestamp. Optional.
	TimestampField string
}

// Record is one parsed log line. Records are immutable once parsed; ordering
// within a source is file line order.
type Record struct {
	SourceName string
	LineNumber int
	Raw        string
	Fields     map[string]any
	Timestamp  time.Time
}

// ReadStats summarizes a read of one source for partial diagnostics.
type ReadStats struct {
	// Lines is the total number of lines seen.
	Lines int
	// Parsed is the number of lines that produced a record.
	Parsed int
	// Skipped counts lines the parser could not match or decode.
	Skipped int
}
