package inventory

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"testing"
)

type fakeFile struct {
	name string // Relative to the root's parent directory.
	size int64
	typ  byte
}

// Serves tar streams for a fixed set of roots, mimicking how container trees
// are copied out: entries named relative to the root's parent.
type fakeSource struct {
	trees    map[string][]fakeFile
	probeErr error
}

func (s *fakeSource) PathExists(ctx context.Context, p string) (bool, error) {
	if s.probeErr != nil {
		return false, s.probeErr
	}
	_, ok := s.trees[p]
	return ok, nil
}

func (s *fakeSource) OpenTree(ctx context.Context, p string) (io.ReadCloser, error) {
	files, ok := s.trees[p]
	if !ok {
		return nil, fmt.Errorf("no tree for %s", p)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, f := range files {
		hdr := &tar.Header{Name: f.name, Size: f.size, Typeflag: f.typ, Mode: 0o644}
		if f.typ != tar.TypeReg {
			hdr.Size = 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if f.typ == tar.TypeReg {
			if _, err := tw.Write(make([]byte, f.size)); err != nil {
				return nil, err
			}
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return io.NopCloser(&buf), nil
}

func TestList(t *testing.T) {
	src := &fakeSource{trees: map[string][]fakeFile{
		"/usr/bin": {
			{name: "bin", typ: tar.TypeDir},
			{name: "bin/crux", size: 4096, typ: tar.TypeReg},
			{name: "bin/helper", size: 128, typ: tar.TypeReg},
		},
		"/usr/lib/crux": {
			{name: "crux", typ: tar.TypeDir},
			{name: "crux/mod.so", size: 900, typ: tar.TypeReg},
		},
	}}

	entries, err := List(context.Background(), src, []string{"/usr/bin", "/usr/lib/crux"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []Entry{
		{Path: "/usr/bin/crux", Size: 4096},
		{Path: "/usr/bin/helper", Size: 128},
		{Path: "/usr/lib/crux/mod.so", Size: 900},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i] != w {
			t.Fatalf("entries[%d] = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestListSkipsNonRegularFiles(t *testing.T) {
	src := &fakeSource{trees: map[string][]fakeFile{
		"/opt": {
			{name: "opt", typ: tar.TypeDir},
			{name: "opt/link", typ: tar.TypeSymlink},
			{name: "opt/fifo", typ: tar.TypeFifo},
			{name: "opt/real", size: 1, typ: tar.TypeReg},
		},
	}}

	entries, err := List(context.Background(), src, []string{"/opt"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "/opt/real" {
		t.Fatalf("entries = %v, want only /opt/real", entries)
	}
}

func TestListSkipsMissingRoots(t *testing.T) {
	src := &fakeSource{trees: map[string][]fakeFile{
		"/usr/bin": {{name: "bin/a", size: 1, typ: tar.TypeReg}},
	}}

	entries, err := List(context.Background(), src, []string{"/does/not/exist", "/usr/bin"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "/usr/bin/a" {
		t.Fatalf("entries = %v, want only /usr/bin/a", entries)
	}
}

func TestListProbeError(t *testing.T) {
	src := &fakeSource{probeErr: errors.New("exec transport broken")}

	_, err := List(context.Background(), src, []string{"/usr/bin"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrInventory) {
		t.Fatalf("error %v does not wrap ErrInventory", err)
	}
}

func TestSortOrdering(t *testing.T) {
	entries := []Entry{
		{Path: "/usr/lib/z.so"},
		{Path: "/usr/bin/b"},
		{Path: "/etc/conf"},
		{Path: "/usr/bin/a"},
	}
	Sort(entries)

	want := []string{"/etc/conf", "/usr/bin/a", "/usr/bin/b", "/usr/lib/z.so"}
	for i, p := range want {
		if entries[i].Path != p {
			t.Fatalf("entries[%d].Path = %q, want %q", i, entries[i].Path, p)
		}
	}

	// Directory ordering wins over raw string ordering.
	if dir, _ := path.Split(entries[3].Path); dir != "/usr/lib/" {
		t.Fatalf("unexpected final directory %q", dir)
	}
}
