package collector

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedLanguage matches any UnsupportedLanguageError.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedLanguageError is returned by New for an unknown language tag.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Language)
}

func (e *UnsupportedLanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// strategies lists, per language, where each known test tool writes its
// report, in the order they are tried.
var strategies = map[string][]Strategy{
	"cpp": {
		{Label: "ctest", Mode: ModeDirectory, Path: "/Testing"},
		{Label: "cmake", Mode: ModeSingle, Path: "/build/test-results"},
	},
	"csharp": {
		{Label: "dotnet", Mode: ModeDirectory, Path: "/TestResults"},
	},
	"go": {
		{Label: "go-junit-report", Mode: ModeSingle, Path: "/test-results"},
	},
	"java": {
		{Label: "maven", Mode: ModeDirectory, Path: "/target/surefire-reports"},
		{Label: "gradle", Mode: ModeDirectory, Path: "/build/test-results/test"},
	},
	// Jest and Vitest are both configured to write /test-results/junit.xml,
	// so vitest only runs after jest already failed on the same file.
	"javascript": {
		{Label: "jest", Mode: ModeSingle, Path: "/test-results/junit.xml"},
		{Label: "mocha", Mode: ModeSingle, Path: "/test-results/test-results.xml"},
		{Label: "vitest", Mode: ModeSingle, Path: "/test-results/junit.xml"},
	},
	"python": {
		{Label: "pytest", Mode: ModeSingle, Path: "/report.xml"},
		{Label: "unittest", Mode: ModeDirectory, Path: "/test_reports"},
	},
	"rust": {
		{Label: "nextest", Mode: ModeSingle, Path: "/target/nextest/junit.xml"},
	},
}

var aliases = map[string]string{
	"c":          "cpp",
	"c++":        "cpp",
	"cpp":        "cpp",
	"c#":         "csharp",
	"csharp":     "csharp",
	"dotnet":     "csharp",
	"go":         "go",
	"golang":     "go",
	"java":       "java",
	"javascript": "javascript",
	"js":         "javascript",
	"typescript": "javascript",
	"ts":         "javascript",
	"python":     "python",
	"rust":       "rust",
}

// New returns the collector for a language tag. Tags are case-insensitive.
func New(language string) (*Collector, error) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return nil, &UnsupportedLanguageError{Language: language}
	}
	return &Collector{
		Language:   name,
		Strategies: append([]Strategy(nil), strategies[name]...),
	}, nil
}

// Languages returns every accepted language tag, sorted.
func Languages() []string {
	tags := make([]string, 0, len(aliases))
	for tag := range aliases {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
