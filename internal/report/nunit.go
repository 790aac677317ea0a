package report

import (
	_ "embed"
	"fmt"

	"github.com/wamuir/go-xslt"
)

//go:embed nunit3-junit.xslt
var nunitStylesheet []byte

// convertNUnit applies the bundled XSLT transformation to turn an NUnit 3
// <test-run> document into JUnit XML.
func convertNUnit(input []byte) ([]byte, error) {
	xs, err := xslt.NewStylesheet(nunitStylesheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create stylesheet: %w", err)
	}
	defer xs.Close()

	transformed, err := xs.Transform(input)
	if err != nil {
		return nil, fmt.Errorf("failed to apply XSLT transformation: %w", err)
	}
	return transformed, nil
}
