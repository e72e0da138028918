package logsource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/petra-ci/pipecheck/internal/errors"
)

// WarnFunc receives a non-fatal per-line parse warning.
type WarnFunc func(source string, line int, reason string)

// Reader reads log sources into ordered records. The reader never writes to
// a source and holds no state between reads beyond the warning sink.
type Reader struct {
	warn WarnFunc
}

// NewReader creates a Reader. warn may be nil to discard parse warnings.
func NewReader(warn WarnFunc) *Reader {
	if warn == nil {
		warn = func(string, int, string) {}
	}
	return &Reader{warn: warn}
}

// Read parses one source into its ordered record sequence.
// A missing file is a Source error wrapping errors.ErrSourceNotFound.
// Lines the parser cannot handle are skipped and counted, never fatal.
func (r *Reader) Read(src Source) ([]Record, ReadStats, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ReadStats{}, errors.WrapWithMessage(
				fmt.Errorf("%w: %s", errors.ErrSourceNotFound, src.Path),
				errors.Source,
				fmt.Sprintf("reading log source %q", src.Name),
				"check the path in log_parsing.log_sources",
				"run the pipeline so the log file exists before verifying")
		}
		return nil, ReadStats{}, errors.WrapWithMessage(err, errors.Source,
			fmt.Sprintf("opening log source %q", src.Name))
	}
	defer f.Close()

	return r.parse(src, f)
}

// parse consumes the stream line by line with the configured parser.
func (r *Reader) parse(src Source, stream io.Reader) ([]Record, ReadStats, error) {
	var lineParser func(line string) (map[string]any, error)

	switch src.Parser {
	case ParserRegex:
		re, err := regexp.Compile(src.Pattern)
		if err != nil {
			return nil, ReadStats{}, errors.NewConfigError(
				fmt.Sprintf("log source %q: invalid pattern %q: %v", src.Name, src.Pattern, err),
				"fix the regular expression in log_parsing.log_sources")
		}
		lineParser = regexLineParser(re)
	case ParserJSON:
		lineParser = jsonLineParser
	default:
		return nil, ReadStats{}, errors.NewConfigError(
			fmt.Sprintf("log source %q: unknown parser type %q", src.Name, src.Parser),
			"use one of: regex, json")
	}

	var (
		records []Record
		stats   ReadStats
	)

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()

		fields, err := lineParser(line)
		if err != nil {
			stats.Skipped++
			r.warn(src.Name, stats.Lines, err.Error())
			continue
		}

		rec := Record{
			SourceName: src.Name,
			LineNumber: stats.Lines,
			Raw:        line,
			Fields:     fields,
		}
		if src.TimestampField != "" {
			rec.Timestamp = promoteTimestamp(fields, src.TimestampField)
		}
		records = append(records, rec)
		stats.Parsed++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, errors.WrapWithMessage(err, errors.Source,
			fmt.Sprintf("scanning log source %q", src.Name))
	}

	return records, stats, nil
}

// regexLineParser returns a parser extracting named-group captures.
// Lines that do not match produce no record.
func regexLineParser(re *regexp.Regexp) func(string) (map[string]any, error) {
	names := re.SubexpNames()
	return func(line string) (map[string]any, error) {
		match := re.FindStringSubmatch(line)
		if match == nil {
			return nil, fmt.Errorf("line does not match pattern")
		}
		fields := make(map[string]any, len(names))
		for i, name := range names {
			if i == 0 || name == "" {
				continue
			}
			fields[name] = match[i]
		}
		return fields, nil
	}
}

// jsonLineParser decodes one JSON object per line.
func jsonLineParser(line string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return nil, fmt.Errorf("malformed JSON line: %v", err)
	}
	return fields, nil
}

// promoteTimestamp parses an RFC3339 field value into a time.Time.
// Returns the zero time when the field is absent or unparsable.
func promoteTimestamp(fields map[string]any, field string) time.Time {
	raw, ok := fields[field].(string)
	if !ok {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
