package arch

import (
	"bytes"
	"debug/elf"
	"io"
	"os"
)

// Family is the CPU instruction-set target a compiled binary was produced
// for.
type Family string

const (
	// AMD64 is 64-bit x86 (ELF machine EM_X86_64).
	AMD64 Family = "amd64"

	// ARM64 is 64-bit ARM (ELF machine EM_AARCH64).
	ARM64 Family = "arm64"

	// Unknown covers unrecognized machines, truncated headers, and inputs
	// that are not executables at all. It never matches an expected family.
	Unknown Family = "unknown"
)

// Classify inspects an executable's header and returns its architecture
// family.
//
// Corrupt, truncated, or non-ELF input yields Unknown rather than an error
// or a fabricated family. The reader is never written to.
func Classify(r io.ReaderAt) Family {
	f, err := elf.NewFile(r)
	if err != nil {
		return Unknown
	}
	defer f.Close()

	switch f.Machine {
	case elf.EM_X86_64:
		return AMD64
	case elf.EM_AARCH64:
		return ARM64
	default:
		return Unknown
	}
}

// ClassifyBytes classifies an in-memory binary image.
func ClassifyBytes(data []byte) Family {
	return Classify(bytes.NewReader(data))
}

// ClassifyFile classifies the binary at the given path.
//
// The returned error reports only read failures (missing or unreadable
// file); unrecognized content is an Unknown family, not an error.
func ClassifyFile(path string) (Family, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()
	return Classify(f), nil
}

// FamilyForArch maps a configured target architecture to the family the
// classifier reports for binaries compiled for it.
func FamilyForArch(goarch string) Family {
	switch goarch {
	case "amd64":
		return AMD64
	case "arm64":
		return ARM64
	default:
		return Unknown
	}
}
