package build

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDirToTar(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("top"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("nested"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirToTar(tw, dir, "src"); err != nil {
		t.Fatalf("writeDirToTar: %v", err)
	}
	tw.Close()

	found := map[string]string{}
	tr := tar.NewReader(&buf)
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		var content bytes.Buffer
		content.ReadFrom(tr)
		found[hdr.Name] = content.String()
	}

	if found["src/a.txt"] != "top" {
		t.Fatalf("src/a.txt = %q, want top", found["src/a.txt"])
	}
	if found["src/sub/b.txt"] != "nested" {
		t.Fatalf("src/sub/b.txt = %q, want nested", found["src/sub/b.txt"])
	}
}

func TestExtractFileTo(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	tw.WriteHeader(&tar.Header{Name: "out", Typeflag: tar.TypeDir, Mode: 0o755})
	tw.WriteHeader(&tar.Header{Name: "out/server", Typeflag: tar.TypeReg, Size: 8, Mode: 0o644})
	tw.Write([]byte("compiled"))
	tw.Close()

	dst := filepath.Join(t.TempDir(), "server")
	if err := extractFileTo(dst, &buf); err != nil {
		t.Fatalf("extractFileTo: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "compiled" {
		t.Fatalf("content = %q, want compiled", data)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0o100 == 0 {
		t.Fatalf("mode = %v, want executable", info.Mode())
	}
}

func TestExtractFileToEmptyArchive(t *testing.T) {
	var buf bytes.Buffer
	tar.NewWriter(&buf).Close()

	err := extractFileTo(filepath.Join(t.TempDir(), "out"), &buf)
	if err == nil {
		t.Fatal("expected error for archive without regular files, got nil")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "nested", "dst")
	if err := copyFile(dst, src); err != nil {
		t.Fatalf("copyFile: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q, want payload", data)
	}
}

func TestVersionSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2.4", "2.4"},
		{"v2.4.1", "v2.4.1"},
		{"feature/foo bar", "feature-foo-bar"},
		{"rel_2024", "rel-2024"},
	}

	for _, tt := range tests {
		if got := versionSlug(tt.input); got != tt.want {
			t.Fatalf("versionSlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDiscardArtifacts(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	discardArtifacts(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("directory not emptied: %v", entries)
	}
}
