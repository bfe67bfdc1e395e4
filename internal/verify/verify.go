package verify

import (
	"context"
	"errors"
	"io/fs"

	"github.com/reminthq/remint/internal/arch"
	"github.com/reminthq/remint/internal/release"
)

// Verdict is the reportable classification outcome for one binary against
// its expected architecture.
type Verdict string

const (
	// Match means the binary classified to the expected family.
	Match Verdict = "match"

	// Mismatch means the binary classified to a different family, including
	// the unknown family for unrecognized content.
	Mismatch Verdict = "mismatch"

	// NotFound means the binary is absent from the image.
	NotFound Verdict = "not-found"
)

// Failing reports whether the verdict blocks verification success.
// NotFound and Mismatch both fail; only Match passes.
func (v Verdict) Failing() bool {
	return v != Match
}

// One failing binary in a verification report.
type Failure struct {
	Binary  release.Binary // The manifest entry that failed.
	Verdict Verdict        // Why it failed.
	Family  arch.Family    // The family actually found (Unknown when absent).
}

// Result of verifying one image against a binary manifest.
type Report struct {
	Checked  int       // Number of manifest binaries examined.
	Failures []Failure // Failing binaries, in manifest order.
}

// Passed reports whether every checked binary matched the expected family.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Provides read access to individual files of an image.
//
// Implemented by runtime.Container. A missing path must be reported as
// [fs.ErrNotExist]; any other error means the image is unreadable.
type FileSource interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Verifies that every binary in the manifest was compiled for the expected
// architecture family.
//
// Each binary is read from the source and classified. A mismatching or
// missing binary is data in the report, never an error; only an unreadable
// source aborts with an error. The source is never mutated, so previously
// built images can be re-audited at any time.
func Image(ctx context.Context, src FileSource, manifest []release.Binary, expected arch.Family) (*Report, error) {
	report := &Report{}

	for _, bin := range manifest {
		report.Checked++

		data, err := src.ReadFile(ctx, bin.Path)
		if errors.Is(err, fs.ErrNotExist) {
			report.Failures = append(report.Failures, Failure{
				Binary:  bin,
				Verdict: NotFound,
				Family:  arch.Unknown,
			})
			continue
		}
		if err != nil {
			return nil, err
		}

		family := arch.ClassifyBytes(data)
		if family != expected {
			report.Failures = append(report.Failures, Failure{
				Binary:  bin,
				Verdict: Mismatch,
				Family:  family,
			})
		}
	}

	return report, nil
}

// Classifies a set of compiled artifacts on the host against the expected
// family, returning a verdict per binary name.
//
// Used by the build pipeline as the pre-publish gate over a strategy's
// output: artifacts maps binary names to host paths. Binaries without an
// artifact are NotFound. Read failures are errors, matching the Image
// contract.
func Artifacts(manifest []release.Binary, artifacts map[string]string, expected arch.Family) (map[string]Verdict, error) {
	verdicts := make(map[string]Verdict, len(manifest))

	for _, bin := range manifest {
		path, ok := artifacts[bin.Name]
		if !ok {
			verdicts[bin.Name] = NotFound
			continue
		}

		family, err := arch.ClassifyFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			verdicts[bin.Name] = NotFound
			continue
		}
		if err != nil {
			return nil, err
		}

		if family == expected {
			verdicts[bin.Name] = Match
		} else {
			verdicts[bin.Name] = Mismatch
		}
	}

	return verdicts, nil
}
