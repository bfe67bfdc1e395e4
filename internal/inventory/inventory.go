package inventory

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
)

// One regular file in a built image: its absolute path and byte size.
type Entry struct {
	Path string // Absolute path inside the image.
	Size int64  // Size in bytes.
}

// Provides read access to an image filesystem.
//
// Implemented by runtime.Container: PathExists probes a path and OpenTree
// streams a directory as a tar archive whose entries are named relative to
// the tree's parent directory.
type Source interface {
	PathExists(ctx context.Context, path string) (bool, error)
	OpenTree(ctx context.Context, path string) (io.ReadCloser, error)
}

// Enumerates the regular files under the given roots.
//
// Directories and symlinks are skipped. Roots that do not exist in the image
// are skipped, not an error. The result is sorted by directory then file
// name, so repeated runs over the same image produce identical listings. The
// source is only read, never modified.
func List(ctx context.Context, src Source, roots []string) ([]Entry, error) {
	var entries []Entry

	for _, root := range roots {
		exists, err := src.PathExists(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("%w: probing %s: %w", ErrInventory, root, err)
		}
		if !exists {
			continue
		}

		rootEntries, err := listRoot(ctx, src, root)
		if err != nil {
			return nil, err
		}
		entries = append(entries, rootEntries...)
	}

	Sort(entries)
	return entries, nil
}

// Enumerates the regular files under a single root by walking its tar stream.
func listRoot(ctx context.Context, src Source, root string) ([]Entry, error) {
	rc, err := src.OpenTree(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrInventory, root, err)
	}
	defer rc.Close()

	// Tar entries are named relative to the root's parent directory.
	parent := path.Dir(root)

	var entries []Entry
	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrInventory, root, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		entries = append(entries, Entry{
			Path: path.Join(parent, hdr.Name),
			Size: hdr.Size,
		})
	}
}

// Sorts entries by directory, then by file name.
func Sort(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		di, bi := path.Split(entries[i].Path)
		dj, bj := path.Split(entries[j].Path)
		if di != dj {
			return di < dj
		}
		return bi < bj
	})
}
