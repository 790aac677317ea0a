// Package archive copies files out of a running container as a tar stream.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when a path does not exist in the container,
	// or a single-file copy yields no file.
	ErrNotFound = errors.New("path not found in container")

	// ErrAmbiguous is returned when a single-file copy yields more than one file.
	ErrAmbiguous = errors.New("expected exactly one file")
)

// Container is a handle to a running container whose filesystem can be
// copied out as a tar archive. Implementations must return an error wrapping
// ErrNotFound when path does not exist.
type Container interface {
	CopyFromContainer(ctx context.Context, path string) (io.ReadCloser, error)
}

// File is a regular file read from an archive.
type File struct {
	Name string
	Data []byte
}

// ExtractSingle copies path out of the container and returns the contents of
// the one file it contains.
func ExtractSingle(ctx context.Context, c Container, p string) ([]byte, error) {
	files, err := extract(ctx, c, p, nil)
	if err != nil {
		return nil, err
	}
	switch len(files) {
	case 0:
		return nil, fmt.Errorf("%s: archive is empty: %w", p, ErrNotFound)
	case 1:
		return files[0].Data, nil
	default:
		return nil, fmt.Errorf("%s: archive holds %d files: %w", p, len(files), ErrAmbiguous)
	}
}

// ExtractMany copies the directory dir out of the container and returns every
// xml file it contains, in archive order. An empty directory is not an error.
func ExtractMany(ctx context.Context, c Container, dir string) ([]File, error) {
	return extract(ctx, c, dir, isXML)
}

func isXML(name string) bool {
	return strings.EqualFold(path.Ext(name), ".xml")
}

func extract(ctx context.Context, c Container, p string, keep func(string) bool) ([]File, error) {
	rc, err := c.CopyFromContainer(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var files []File
	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: reading archive: %w", p, err)
		}
		if !hdr.FileInfo().Mode().IsRegular() {
			continue
		}
		if keep != nil && !keep(hdr.Name) {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%s: reading %s: %w", p, hdr.Name, err)
		}
		files = append(files, File{Name: hdr.Name, Data: data})
	}
	return files, nil
}
