package report

import "encoding/xml"

// junitSuites is the <testsuites> root written by most JUnit reporters.
type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr,omitempty"`
	Tests    string       `xml:"tests,attr,omitempty"`
	Failures string       `xml:"failures,attr,omitempty"`
	Errors   string       `xml:"errors,attr,omitempty"`
	Skipped  string       `xml:"skipped,attr,omitempty"`
	Time     string       `xml:"time,attr,omitempty"`
	Suites   []junitSuite `xml:"testsuite"`
}

// junitSuite is a <testsuite>. Surefire and pytest write one as the root;
// CTest and some Jest reporters nest them.
type junitSuite struct {
	XMLName  xml.Name     `xml:"testsuite"`
	Name     string       `xml:"name,attr"`
	Tests    string       `xml:"tests,attr,omitempty"`
	Failures string       `xml:"failures,attr,omitempty"`
	Errors   string       `xml:"errors,attr,omitempty"`
	Skipped  string       `xml:"skipped,attr,omitempty"`
	Time     string       `xml:"time,attr,omitempty"`
	Cases    []junitCase  `xml:"testcase"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr,omitempty"`
	Time      string        `xml:"time,attr,omitempty"`
	Failure   *junitProblem `xml:"failure"`
	Error     *junitProblem `xml:"error"`
	Skipped   *junitProblem `xml:"skipped"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// junitProblem is the body of a <failure>, <error> or <skipped> element.
type junitProblem struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Body    string `xml:",chardata"`
}
