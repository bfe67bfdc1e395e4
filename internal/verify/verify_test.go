package verify

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/reminthq/remint/internal/arch"
	"github.com/reminthq/remint/internal/release"
)

// Builds a minimal ELF64 little-endian executable header for the given
// machine, parseable by debug/elf.
func elfBinary(machine uint16) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1})
	buf.Write(make([]byte, 9))

	for _, field := range []any{
		uint16(2), machine, uint32(1), // type, machine, version
		uint64(0), uint64(0), uint64(0), // entry, phoff, shoff
		uint32(0),                        // flags
		uint16(64), uint16(56), uint16(0), // ehsize, phentsize, phnum
		uint16(64), uint16(0), uint16(0), // shentsize, shnum, shstrndx
	} {
		binary.Write(&buf, binary.LittleEndian, field)
	}
	return buf.Bytes()
}

const (
	machineX86_64  = 0x3e
	machineAArch64 = 0xb7
)

// In-memory FileSource backed by a path map.
type fakeSource struct {
	files map[string][]byte
	err   error
}

func (s *fakeSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

func manifest(paths ...string) []release.Binary {
	binaries := make([]release.Binary, 0, len(paths))
	for _, p := range paths {
		binaries = append(binaries, release.Binary{Name: filepath.Base(p), Path: p})
	}
	return binaries
}

func TestImageAllMatch(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"/usr/bin/a": elfBinary(machineAArch64),
		"/usr/bin/b": elfBinary(machineAArch64),
	}}

	report, err := Image(context.Background(), src, manifest("/usr/bin/a", "/usr/bin/b"), arch.ARM64)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if !report.Passed() {
		t.Fatalf("report did not pass: %+v", report)
	}
	if report.Checked != 2 {
		t.Fatalf("Checked = %d, want 2", report.Checked)
	}
}

func TestImageMismatch(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"/usr/bin/a": elfBinary(machineX86_64),
	}}

	report, err := Image(context.Background(), src, manifest("/usr/bin/a"), arch.ARM64)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if report.Passed() {
		t.Fatal("report passed with a mismatching binary")
	}
	failure := report.Failures[0]
	if failure.Verdict != Mismatch {
		t.Fatalf("verdict = %q, want %q", failure.Verdict, Mismatch)
	}
	if failure.Family != arch.AMD64 {
		t.Fatalf("family = %q, want %q", failure.Family, arch.AMD64)
	}
}

func TestImageNotFound(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{}}

	report, err := Image(context.Background(), src, manifest("/usr/bin/gone"), arch.ARM64)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if report.Passed() {
		t.Fatal("report passed with a missing binary")
	}
	failure := report.Failures[0]
	if failure.Verdict != NotFound {
		t.Fatalf("verdict = %q, want %q", failure.Verdict, NotFound)
	}
	if failure.Family != arch.Unknown {
		t.Fatalf("family = %q, want %q", failure.Family, arch.Unknown)
	}
	if report.Checked != 1 {
		t.Fatalf("Checked = %d, want 1", report.Checked)
	}
}

func TestImageCorruptBinaryIsMismatch(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"/usr/bin/a": []byte("not an executable"),
	}}

	report, err := Image(context.Background(), src, manifest("/usr/bin/a"), arch.ARM64)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	failure := report.Failures[0]
	if failure.Verdict != Mismatch || failure.Family != arch.Unknown {
		t.Fatalf("failure = %+v, want mismatch/unknown", failure)
	}
}

func TestImageReadError(t *testing.T) {
	src := &fakeSource{err: errors.New("exec transport broken")}

	_, err := Image(context.Background(), src, manifest("/usr/bin/a"), arch.ARM64)
	if err == nil {
		t.Fatal("expected error for unreadable source, got nil")
	}
}

func TestImageMismatchDoesNotAbort(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"/usr/bin/bad":  elfBinary(machineX86_64),
		"/usr/bin/good": elfBinary(machineAArch64),
	}}

	report, err := Image(context.Background(), src, manifest("/usr/bin/bad", "/usr/bin/good"), arch.ARM64)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if report.Checked != 2 {
		t.Fatalf("Checked = %d, want 2 (later binaries still examined)", report.Checked)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures = %+v, want exactly the bad binary", report.Failures)
	}
}

func TestArtifacts(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good")
	wrong := filepath.Join(dir, "wrong")
	if err := os.WriteFile(good, elfBinary(machineAArch64), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(wrong, elfBinary(machineX86_64), 0o755); err != nil {
		t.Fatal(err)
	}

	binaries := []release.Binary{
		{Name: "good", Path: "/usr/bin/good"},
		{Name: "wrong", Path: "/usr/bin/wrong"},
		{Name: "absent", Path: "/usr/bin/absent"},
	}
	artifacts := map[string]string{"good": good, "wrong": wrong}

	verdicts, err := Artifacts(binaries, artifacts, arch.ARM64)
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}

	want := map[string]Verdict{"good": Match, "wrong": Mismatch, "absent": NotFound}
	for name, verdict := range want {
		if verdicts[name] != verdict {
			t.Fatalf("verdicts[%s] = %q, want %q", name, verdicts[name], verdict)
		}
	}
}

func TestVerdictFailing(t *testing.T) {
	if Match.Failing() {
		t.Fatal("match must not fail")
	}
	if !Mismatch.Failing() || !NotFound.Failing() {
		t.Fatal("mismatch and not-found must fail")
	}
}
