package collector

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testNew struct {
	name     string
	language string
	want     []Strategy
}

func TestNew(t *testing.T) {
	tests := []testNew{
		{
			name:     "cpp",
			language: "c++",
			want: []Strategy{
				{Label: "ctest", Mode: ModeDirectory, Path: "/Testing"},
				{Label: "cmake", Mode: ModeSingle, Path: "/build/test-results"},
			},
		},
		{
			name:     "csharp",
			language: "csharp",
			want: []Strategy{
				{Label: "dotnet", Mode: ModeDirectory, Path: "/TestResults"},
			},
		},
		{
			name:     "go",
			language: "Go",
			want: []Strategy{
				{Label: "go-junit-report", Mode: ModeSingle, Path: "/test-results"},
			},
		},
		{
			name:     "java",
			language: "java",
			want: []Strategy{
				{Label: "maven", Mode: ModeDirectory, Path: "/target/surefire-reports"},
				{Label: "gradle", Mode: ModeDirectory, Path: "/build/test-results/test"},
			},
		},
		{
			// vitest deliberately shares jest's path.
			name:     "typescript",
			language: "typescript",
			want: []Strategy{
				{Label: "jest", Mode: ModeSingle, Path: "/test-results/junit.xml"},
				{Label: "mocha", Mode: ModeSingle, Path: "/test-results/test-results.xml"},
				{Label: "vitest", Mode: ModeSingle, Path: "/test-results/junit.xml"},
			},
		},
		{
			name:     "python",
			language: "python",
			want: []Strategy{
				{Label: "pytest", Mode: ModeSingle, Path: "/report.xml"},
				{Label: "unittest", Mode: ModeDirectory, Path: "/test_reports"},
			},
		},
		{
			name:     "rust",
			language: " rust ",
			want: []Strategy{
				{Label: "nextest", Mode: ModeSingle, Path: "/target/nextest/junit.xml"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.language)
			if err != nil {
				t.Fatalf("New() expected no error, got: %v", err)
			}
			if diff := cmp.Diff(tc.want, c.Strategies); diff != "" {
				t.Errorf("New() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	c, err := New("unknown-lang")
	if c != nil {
		t.Errorf("New() expected nil collector, got: %+v", c)
	}
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("New() expected error: %v, got: %v", ErrUnsupportedLanguage, err)
	}
	var uerr *UnsupportedLanguageError
	if !errors.As(err, &uerr) || uerr.Language != "unknown-lang" {
		t.Errorf("New() expected *UnsupportedLanguageError for unknown-lang, got: %v", err)
	}
}

func TestNewReturnsCopy(t *testing.T) {
	a, _ := New("python")
	a.Strategies[0].Path = "/elsewhere.xml"

	b, _ := New("python")
	if b.Strategies[0].Path != "/report.xml" {
		t.Errorf("New() shares strategy table between collectors: %+v", b.Strategies)
	}
}

func TestLanguages(t *testing.T) {
	for _, tag := range Languages() {
		if _, err := New(tag); err != nil {
			t.Errorf("New(%q) expected no error, got: %v", tag, err)
		}
	}
}
