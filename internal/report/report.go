// Package report normalizes JUnit-style XML test reports into a flat,
// language-agnostic list of test cases.
package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// ErrMalformed is returned when a document is not a test report.
var ErrMalformed = errors.New("malformed test report")

// Outcome is the result of a single test case.
type Outcome string

const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Errored Outcome = "errored"
	Skipped Outcome = "skipped"
)

// Case is one executed test case.
type Case struct {
	Suite     string
	ClassName string
	Name      string
	Duration  time.Duration
	Outcome   Outcome
	// Message and Details hold the failure, error or skip message and the
	// element body, usually a stack trace.
	Message string
	Details string
	// Output is the captured <system-out> of the case.
	Output string
}

// Result is a normalized test report.
type Result struct {
	Cases []Case
}

// Summary holds per-outcome counts of a Result.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
	Duration time.Duration
}

// Summary counts the cases of r by outcome.
func (r *Result) Summary() Summary {
	var s Summary
	if r == nil {
		return s
	}
	for _, c := range r.Cases {
		s.Total++
		s.Duration += c.Duration
		switch c.Outcome {
		case Passed:
			s.Passed++
		case Failed:
			s.Failed++
		case Errored:
			s.Errored++
		case Skipped:
			s.Skipped++
		}
	}
	return s
}

// Failed reports whether any case failed or errored.
func (r *Result) Failed() bool {
	s := r.Summary()
	return s.Failed > 0 || s.Errored > 0
}

// Merge concatenates the cases of every result in argument order.
func Merge(results ...*Result) *Result {
	merged := &Result{Cases: []Case{}}
	for _, r := range results {
		if r == nil {
			continue
		}
		merged.Cases = append(merged.Cases, r.Cases...)
	}
	return merged
}

// Parse decodes a JUnit <testsuites> or <testsuite> document. NUnit 3
// <test-run> documents are converted to JUnit first. Anything other than
// comments, processing instructions or whitespace after the root element
// makes the document malformed.
func Parse(data []byte) (*Result, error) {
	dec := newDecoder(data)
	root, err := rootElement(dec)
	if err != nil {
		return nil, err
	}

	var r *Result
	switch root.Name.Local {
	case "testsuites":
		var doc junitSuites
		if err := dec.DecodeElement(&doc, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		r = &Result{Cases: []Case{}}
		for _, s := range doc.Suites {
			r.Cases = appendSuite(r.Cases, s)
		}
	case "testsuite":
		var doc junitSuite
		if err := dec.DecodeElement(&doc, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		r = &Result{Cases: appendSuite([]Case{}, doc)}
	case "test-run":
		if err := dec.Skip(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := checkTrailing(dec); err != nil {
			return nil, err
		}
		converted, err := convertNUnit(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Parse(converted)
	default:
		return nil, fmt.Errorf("%w: unexpected root element <%s>", ErrMalformed, root.Name.Local)
	}

	if err := checkTrailing(dec); err != nil {
		return nil, err
	}
	return r, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// rootElement returns the first element in the document.
func rootElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, fmt.Errorf("%w: no root element", ErrMalformed)
		}
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return xml.StartElement{}, fmt.Errorf("%w: text before root element", ErrMalformed)
			}
		}
	}
}

// checkTrailing reads the rest of the document after the root element.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("%w: second root element <%s>", ErrMalformed, t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return fmt.Errorf("%w: text after root element", ErrMalformed)
			}
		}
	}
}

func appendSuite(cases []Case, s junitSuite) []Case {
	for _, tc := range s.Cases {
		cases = append(cases, normalizeCase(s.Name, tc))
	}
	for _, child := range s.Suites {
		cases = appendSuite(cases, child)
	}
	return cases
}

func normalizeCase(suite string, tc junitCase) Case {
	c := Case{
		Suite:     suite,
		ClassName: tc.ClassName,
		Name:      tc.Name,
		Duration:  parseSeconds(tc.Time),
		Outcome:   Passed,
		Output:    strings.TrimSpace(tc.SystemOut),
	}
	var p *junitProblem
	switch {
	case tc.Failure != nil:
		c.Outcome, p = Failed, tc.Failure
	case tc.Error != nil:
		c.Outcome, p = Errored, tc.Error
	case tc.Skipped != nil:
		c.Outcome, p = Skipped, tc.Skipped
	}
	if p != nil {
		c.Message = p.Message
		c.Details = strings.TrimSpace(p.Body)
	}
	return c
}

// parseSeconds reads a JUnit time attribute. Some reporters write thousands
// separators; unparsable values count as zero.
func parseSeconds(s string) time.Duration {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
