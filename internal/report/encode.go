package report

import (
	"encoding/xml"
	"strconv"
)

// Encode writes r as a single JUnit <testsuites> document, with one
// <testsuite> per distinct suite name in order of first appearance.
func Encode(r *Result) ([]byte, error) {
	doc := junitSuites{}
	index := map[string]int{}
	if r != nil {
		for _, c := range r.Cases {
			i, ok := index[c.Suite]
			if !ok {
				i = len(doc.Suites)
				index[c.Suite] = i
				doc.Suites = append(doc.Suites, junitSuite{Name: c.Suite})
			}
			doc.Suites[i].Cases = append(doc.Suites[i].Cases, encodeCase(c))
		}
	}

	for i := range doc.Suites {
		s := &doc.Suites[i]
		sum := (&Result{Cases: suiteCases(r, s.Name)}).Summary()
		setCounts(&s.Tests, &s.Failures, &s.Errors, &s.Skipped, &s.Time, sum)
	}
	setCounts(&doc.Tests, &doc.Failures, &doc.Errors, &doc.Skipped, &doc.Time, r.Summary())

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func suiteCases(r *Result, suite string) []Case {
	var cases []Case
	for _, c := range r.Cases {
		if c.Suite == suite {
			cases = append(cases, c)
		}
	}
	return cases
}

func setCounts(tests, failures, errors, skipped, elapsed *string, s Summary) {
	*tests = strconv.Itoa(s.Total)
	*failures = strconv.Itoa(s.Failed)
	*errors = strconv.Itoa(s.Errored)
	*skipped = strconv.Itoa(s.Skipped)
	*elapsed = formatSeconds(s.Duration.Seconds())
}

func formatSeconds(secs float64) string {
	return strconv.FormatFloat(secs, 'f', 3, 64)
}

func encodeCase(c Case) junitCase {
	tc := junitCase{
		Name:      c.Name,
		ClassName: c.ClassName,
		Time:      formatSeconds(c.Duration.Seconds()),
		SystemOut: c.Output,
	}
	p := &junitProblem{Message: c.Message, Body: c.Details}
	switch c.Outcome {
	case Failed:
		tc.Failure = p
	case Errored:
		tc.Error = p
	case Skipped:
		tc.Skipped = p
	}
	return tc
}
