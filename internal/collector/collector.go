// Package collector locates and normalizes test results left behind in a
// container by a language's test runner.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drone/drone-test-collector/internal/archive"
	"github.com/drone/drone-test-collector/internal/report"
)

// Mode selects how a strategy copies its path out of the container.
type Mode int

const (
	// ModeSingle expects exactly one report file at the path.
	ModeSingle Mode = iota
	// ModeDirectory merges every report file under the path.
	ModeDirectory
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeDirectory:
		return "directory"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Strategy is one known location where a test tool writes its report.
type Strategy struct {
	Label string
	Mode  Mode
	Path  string
}

// Collector tries its strategies in order until one yields a report.
// It holds no mutable state and is safe for concurrent use.
type Collector struct {
	Language   string
	Strategies []Strategy
}

// Attempt records why a strategy did not produce a report.
type Attempt struct {
	Strategy Strategy
	Err      error
}

// StrategiesError is returned when every strategy failed.
type StrategiesError struct {
	InstanceID string
	Language   string
	Attempts   []Attempt
}

func (e *StrategiesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to get %s test results for %s", e.Language, e.InstanceID)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, ". %s method failed: %v", a.Strategy.Label, a.Err)
	}
	return b.String()
}

// Unwrap exposes the cause of every attempt.
func (e *StrategiesError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Collect returns the report of the first strategy that can be extracted and
// parsed. Later strategies are not tried once one succeeds.
func (c *Collector) Collect(ctx context.Context, instanceID string, container archive.Container) (*report.Result, error) {
	logger := logrus.
		WithField("instance", instanceID).
		WithField("language", c.Language)

	var attempts []Attempt
	for _, s := range c.Strategies {
		entry := logger.
			WithField("strategy", s.Label).
			WithField("path", s.Path)

		result, err := s.collect(ctx, container)
		if err != nil {
			entry.WithError(err).Debug("Strategy produced no test results")
			attempts = append(attempts, Attempt{Strategy: s, Err: err})
			continue
		}

		entry.Infof("Collected %d test case(s)", len(result.Cases))
		return result, nil
	}

	if len(attempts) == 0 {
		return nil, fmt.Errorf("no strategies configured for %s", c.Language)
	}
	return nil, &StrategiesError{
		InstanceID: instanceID,
		Language:   c.Language,
		Attempts:   attempts,
	}
}

func (s Strategy) collect(ctx context.Context, container archive.Container) (*report.Result, error) {
	switch s.Mode {
	case ModeSingle:
		data, err := archive.ExtractSingle(ctx, container, s.Path)
		if err != nil {
			return nil, err
		}
		return report.Parse(data)
	case ModeDirectory:
		files, err := archive.ExtractMany(ctx, container, s.Path)
		if err != nil {
			return nil, err
		}
		results := make([]*report.Result, 0, len(files))
		for _, f := range files {
			r, err := report.Parse(f.Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			results = append(results, r)
		}
		return report.Merge(results...), nil
	default:
		return nil, errors.New("unknown extraction mode " + s.Mode.String())
	}
}
