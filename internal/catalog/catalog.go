// Package catalog builds the ordered frame list for a run from a directory
// listing.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"seamless/internal/frame"
)

var (
	// ErrNoMatchingFiles reports an input directory without frames of the
	// requested extension.
	ErrNoMatchingFiles = errors.New("no matching files")
	// ErrDirectoryUnreadable reports that the input directory could not be listed.
	ErrDirectoryUnreadable = errors.New("directory unreadable")
)

// Catalog is the ordered, immutable set of frame handles for one run. Indices
// are the coordinate system for scoring and encoding.
type Catalog struct {
	dir       string
	extension string
	frames    []*frame.Handle
}

// Build lists dir, keeps regular files whose extension matches ext (compared
// case-insensitively, without the dot), and sorts them by path bytes.
func Build(dir, ext string) (*Catalog, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryUnreadable, dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			// Follow symlinks so linked frame directories still work.
			if entry.Type()&os.ModeSymlink == 0 {
				continue
			}
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		if !matchesExtension(entry.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no .%s files in %s", ErrNoMatchingFiles, ext, dir)
	}
	return FromPaths(dir, ext, paths), nil
}

// FromPaths builds a catalog from an explicit path list, sorted by byte order.
func FromPaths(dir, ext string, paths []string) *Catalog {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	frames := make([]*frame.Handle, len(sorted))
	for i, path := range sorted {
		frames[i] = frame.NewHandle(i, path)
	}
	return &Catalog{dir: dir, extension: ext, frames: frames}
}

func matchesExtension(name, ext string) bool {
	got := strings.TrimPrefix(filepath.Ext(name), ".")
	if got == "" {
		return false
	}
	return strings.EqualFold(got, ext)
}

// Len returns the number of frames.
func (c *Catalog) Len() int { return len(c.frames) }

// Dir returns the directory the catalog was built from.
func (c *Catalog) Dir() string { return c.dir }

// Extension returns the extension filter without a leading dot.
func (c *Catalog) Extension() string { return c.extension }

// Frame returns the handle at index i.
func (c *Catalog) Frame(i int) *frame.Handle { return c.frames[i] }

// Frames returns the handles in index order. The slice must not be modified.
func (c *Catalog) Frames() []*frame.Handle { return c.frames }

// Path returns the source path of frame i.
func (c *Catalog) Path(i int) string { return c.frames[i].Path() }
