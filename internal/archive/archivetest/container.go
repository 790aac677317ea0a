// Package archivetest provides an in-memory archive.Container for tests.
package archivetest

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/drone/drone-test-collector/internal/archive"
)

// Container serves files from memory the way `docker cp` would, and records
// every path it was asked for.
type Container struct {
	// Files maps absolute paths to file contents.
	Files map[string]string
	// Dirs lists directories that exist even if they hold no files.
	Dirs []string

	mu        sync.Mutex
	requested []string
}

// Requested returns the paths copied so far, in order.
func (c *Container) Requested() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requested...)
}

// CopyFromContainer implements archive.Container.
func (c *Container) CopyFromContainer(_ context.Context, p string) (io.ReadCloser, error) {
	c.mu.Lock()
	c.requested = append(c.requested, p)
	c.mu.Unlock()

	p = path.Clean(p)
	base := path.Base(p)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	if data, ok := c.Files[p]; ok {
		if err := writeFile(tw, base, data); err != nil {
			return nil, err
		}
		return closeWriter(tw, &buf)
	}

	prefix := p + "/"
	var names []string
	for name := range c.Files {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 && !c.hasDir(p) {
		return nil, fmt.Errorf("copy %s: %w", p, archive.ErrNotFound)
	}
	sort.Strings(names)

	if err := tw.WriteHeader(&tar.Header{Name: base + "/", Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
		return nil, err
	}
	for _, name := range names {
		rel := path.Join(base, strings.TrimPrefix(name, prefix))
		if err := writeFile(tw, rel, c.Files[name]); err != nil {
			return nil, err
		}
	}
	return closeWriter(tw, &buf)
}

func (c *Container) hasDir(p string) bool {
	for _, d := range c.Dirs {
		if path.Clean(d) == p {
			return true
		}
	}
	return false
}

func writeFile(tw *tar.Writer, name, data string) error {
	hdr := &tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0644,
		Size:     int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write([]byte(data))
	return err
}

func closeWriter(tw *tar.Writer, buf *bytes.Buffer) (io.ReadCloser, error) {
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return io.NopCloser(buf), nil
}
