package criteria

import (
	"fmt"
	"regexp"
	"strings"
)

// evalLogContains searches the records of one log source for the criterion's
// pattern, matching against both the raw line and the parsed field values.
// passed = (found == expected).
func evalLogContains(c Criterion, in Inputs) CheckResult {
	records := in.Records[c.LogSource]
	expected := c.ExpectedOrDefault()

	// Config validation rejects uncompilable patterns before evaluation;
	// this branch only fires when the evaluator is called with an
	// unvalidated criterion.
	matcher, err := buildMatcher(c)
	if err != nil {
		return CheckResult{
			CheckName: c.CheckID,
			Passed:    false,
			Message:   err.Error(),
		}
	}

	foundLine := 0
	for _, rec := range records {
		if matcher(rec.Raw) || matcher(fieldsText(rec.Fields)) {
			foundLine = rec.LineNumber
			break
		}
	}
	found := foundLine > 0

	result := CheckResult{
		CheckName:     c.CheckID,
		Passed:        found == expected,
		ExpectedValue: expected,
	}
	if found {
		result.ActualValue = fmt.Sprintf("matched at %s:%d", c.LogSource, foundLine)
	} else {
		result.ActualValue = "not found"
	}
	if !result.Passed {
		if expected {
			result.Message = fmt.Sprintf("pattern %q not found in log source %q (%d records)",
				c.Pattern, c.LogSource, len(records))
		} else {
			result.Message = fmt.Sprintf("pattern %q unexpectedly found in log source %q at line %d",
				c.Pattern, c.LogSource, foundLine)
		}
	}
	return result
}

// buildMatcher compiles the pattern once per criterion.
func buildMatcher(c Criterion) (func(string) bool, error) {
	if c.Regex {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %v", c.Pattern, err)
		}
		return re.MatchString, nil
	}
	return func(s string) bool {
		return strings.Contains(s, c.Pattern)
	}, nil
}

// fieldsText flattens parsed fields into a searchable string.
func fieldsText(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	for key, value := range fields {
		sb.WriteString(key)
		sb.WriteString("=")
		fmt.Fprintf(&sb, "%v", value)
		sb.WriteString(" ")
	}
	return sb.String()
}
