package archive_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/drone/drone-test-collector/internal/archive"
	"github.com/drone/drone-test-collector/internal/archive/archivetest"
)

type testExtractSingle struct {
	name string
	path string
	want string
	err  error
}

type testExtractMany struct {
	name string
	path string
	want []archive.File
	err  error
}

func newContainer() *archivetest.Container {
	return &archivetest.Container{
		Files: map[string]string{
			"/report.xml":             "<testsuite/>",
			"/test_reports/a.xml":     "<a/>",
			"/test_reports/b.xml":     "<b/>",
			"/test_reports/notes.txt": "ignored",
			"/Testing/TAG":            "20240101-0000",
			"/Testing/nested/c.XML":   "<c/>",
		},
		Dirs: []string{"/empty"},
	}
}

func TestExtractSingle(t *testing.T) {
	tests := []testExtractSingle{
		{
			name: "exactFile",
			path: "/report.xml",
			want: "<testsuite/>",
		},
		{
			name: "missingPath",
			path: "/nope.xml",
			err:  archive.ErrNotFound,
		},
		{
			name: "emptyDirectory",
			path: "/empty",
			err:  archive.ErrNotFound,
		},
		{
			name: "directoryWithSeveralFiles",
			path: "/test_reports",
			err:  archive.ErrAmbiguous,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := archive.ExtractSingle(context.Background(), newContainer(), tc.path)
			if !errors.Is(err, tc.err) {
				t.Fatalf("ExtractSingle() expected error: %v, got: %v", tc.err, err)
			}
			if diff := cmp.Diff(tc.want, string(got)); diff != "" {
				t.Errorf("ExtractSingle() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractMany(t *testing.T) {
	tests := []testExtractMany{
		{
			name: "xmlFilesOnly",
			path: "/test_reports",
			want: []archive.File{
				{Name: "test_reports/a.xml", Data: []byte("<a/>")},
				{Name: "test_reports/b.xml", Data: []byte("<b/>")},
			},
		},
		{
			name: "nestedAndUppercaseSuffix",
			path: "/Testing",
			want: []archive.File{
				{Name: "Testing/nested/c.XML", Data: []byte("<c/>")},
			},
		},
		{
			name: "emptyDirectory",
			path: "/empty",
			want: nil,
		},
		{
			name: "missingDirectory",
			path: "/target/surefire-reports",
			err:  archive.ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := archive.ExtractMany(context.Background(), newContainer(), tc.path)
			if !errors.Is(err, tc.err) {
				t.Fatalf("ExtractMany() expected error: %v, got: %v", tc.err, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ExtractMany() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
