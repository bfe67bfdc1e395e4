package runtime

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Reports whether a path exists inside the container's filesystem.
func (c *Container) PathExists(ctx context.Context, path string) (bool, error) {
	exitCode, _, err := c.execCommand(ctx, nil, nil, nil, "", "test", "-e", path)
	if err != nil {
		return false, err
	}
	return exitCode == 0, nil
}

// Reads a single regular file out of the container's filesystem.
//
// A missing path is reported as [fs.ErrNotExist] so callers can distinguish
// an absent binary from an unreadable image. The file is extracted through a
// tar stream; the first regular entry is returned.
func (c *Container) ReadFile(ctx context.Context, path string) ([]byte, error) {
	exists, err := c.PathExists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}

	var buf bytes.Buffer
	if err := c.CopyFrom(ctx, &buf, path); err != nil {
		return nil, err
	}

	tr := tar.NewReader(&buf)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no regular file in archive for %s", ErrRuntime, path)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
		}
		return data, nil
	}
}

// Streams a directory tree out of the container as a tar archive.
//
// Entries are named relative to the tree's parent directory (the CopyFrom
// convention). The returned reader must be closed; closing it tears down the
// underlying exec. Used by the inventory package to enumerate image contents
// without unpacking them to disk.
func (c *Container) OpenTree(ctx context.Context, path string) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(c.CopyFrom(ctx, pw, path))
	}()
	return pr, nil
}
