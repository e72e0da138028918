package report

import (
	"encoding/xml"
	"fmt"
	"io"
)

// junitTestSuite is the root element of the JUnit-XML report: one suite
// grouping one testcase per check.
type junitTestSuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string        `xml:"name,attr"`
	Failure *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

// WriteJUnit serializes a result as a JUnit-XML document. Every check maps
// to one testcase; a failed check carries its message as the failure text.
func WriteJUnit(w io.Writer, result Result, suiteName string) error {
	suite := junitTestSuite{
		Name:  suiteName,
		Tests: len(result.Checks),
	}
	for _, check := range result.Checks {
		tc := junitTestCase{Name: check.CheckName}
		if !check.Passed {
			suite.Failures++
			tc.Failure = &junitFailure{
				Message: check.Message,
				Body:    failureBody(check.ExpectedValue, check.ActualValue),
			}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(suite); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func failureBody(expected, actual any) string {
	if expected == nil && actual == nil {
		return ""
	}
	return fmt.Sprintf("expected: %v\nactual: %v", expected, actual)
}
