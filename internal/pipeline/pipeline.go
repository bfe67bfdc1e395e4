package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reminthq/remint/internal/arch"
	"github.com/reminthq/remint/internal/build"
	"github.com/reminthq/remint/internal/paths"
	"github.com/reminthq/remint/internal/release"
	"github.com/reminthq/remint/internal/verify"
)

// SourceTree is the source-control capability the pipeline runs against.
//
// Position reports the current branch or commit so the tree can be returned
// there after the run. Checkout moves the working tree to a revision.
// SyncSubmodules materializes nested source dependencies at the versions
// recorded by the checked-out revision.
type SourceTree interface {
	Position(ctx context.Context) (string, error)
	Checkout(ctx context.Context, revision string) error
	SyncSubmodules(ctx context.Context) error
}

// Assembler packages a target's verified artifacts into an image archive.
//
// Implemented by build.Assembler; a capability here so tests can observe
// assembly without a container runtime.
type Assembler interface {
	Assemble(ctx context.Context, target release.BuildTarget, binaries []release.Binary, artifacts map[string]string, outputDir string) (string, error)
}

// Collaborators and directories for one pipeline run.
type Deps struct {
	Source     SourceTree                          // Working source tree.
	SrcDir     string                              // Path of the working source tree on disk.
	Strategies map[release.Strategy]build.Strategy // Available build strategies.
	Assembler  Assembler                           // Image assembly.
	WorkDir    string                              // Per-run scratch directory, unique per run.
	OutputDir  string                              // Directory receiving per-target image directories.
}

// Terminal state of one pipeline run for one target.
type Outcome struct {
	Target   release.BuildTarget       // The (version, architecture) pair.
	Verdicts map[string]verify.Verdict // Classification verdict per binary name.
	Image    string                    // Path of the assembled archive; empty when the target failed.
	Err      error                     // Per-target failure; nil on success.
}

// Failed reports whether the target reached a terminal failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Runs the build-and-verify pipeline for one version across all targets.
//
// The current source position is recorded, the tree is moved to the
// version's pinned revision, and nested dependencies are synced. Each target
// is then built with the version's strategy (honoring per-binary overrides),
// every produced binary is classified, and targets whose manifest reached
// all-Match verdicts are assembled into per-target image archives. A failing
// target never aborts its siblings; their assembled images remain available.
//
// The source tree is restored to the recorded position on every exit path,
// including cancellation and mid-state failure. Restoration runs under a
// fresh context so a cancelled run still restores; a restore failure joins
// the returned error under ErrRestore.
//
// The returned outcomes cover every target. The error is non-nil when the
// run aborted fatally, when any target failed, or when restoration failed.
func Run(ctx context.Context, deps Deps, spec release.VersionSpec, targets []release.BuildTarget) (outcomes []Outcome, err error) {
	position, perr := deps.Source.Position(ctx)
	if perr != nil {
		return nil, fmt.Errorf("%w: reading current position: %w", ErrRevision, perr)
	}

	slog.Info("pinning source revision",
		"version", spec.Version,
		"revision", spec.Revision,
		"restore", position,
	)

	// The tree is restored even when checkout fails partway: a failed
	// checkout can still leave the tree moved.
	defer func() {
		if rerr := deps.Source.Checkout(context.Background(), position); rerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: %s: %w", ErrRestore, position, rerr))
		}
	}()

	if cerr := deps.Source.Checkout(ctx, spec.Revision); cerr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRevision, spec.Revision, cerr)
	}

	if serr := deps.Source.SyncSubmodules(ctx); serr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmodules, serr)
	}

	failed := 0
	for _, target := range targets {
		outcome := runTarget(ctx, deps, spec, target)
		if outcome.Failed() {
			failed++
			slog.Error("target failed", "target", target.String(), "error", outcome.Err)
		}
		outcomes = append(outcomes, outcome)

		if ctx.Err() != nil {
			err = ctx.Err()
			return outcomes, err
		}
	}

	if failed > 0 {
		err = fmt.Errorf("%w: %d of %d", ErrTargetFailed, failed, len(targets))
	}
	return outcomes, err
}

// Builds, classifies, and assembles one target. Fail-fast within the target,
// isolated from its siblings.
func runTarget(ctx context.Context, deps Deps, spec release.VersionSpec, target release.BuildTarget) Outcome {
	outcome := Outcome{Target: target}

	slog.Info("building target", "target", target.String())

	outDir := filepath.Join(deps.WorkDir, target.Arch)
	if err := os.MkdirAll(outDir, paths.DefaultDirMode); err != nil {
		outcome.Err = fmt.Errorf("%w: %w", build.ErrFileSystemOperation, err)
		return outcome
	}

	artifacts, err := buildTarget(ctx, deps, spec, target, outDir)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	expected := arch.FamilyForArch(target.Arch)
	verdicts, err := verify.Artifacts(spec.Binaries, artifacts, expected)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Verdicts = verdicts

	for name, verdict := range verdicts {
		if verdict.Failing() {
			outcome.Err = fmt.Errorf("%w: %s: %s", ErrVerdict, name, verdict)
		}
	}
	if outcome.Err != nil {
		return outcome
	}

	image, err := deps.Assembler.Assemble(ctx, target, spec.Binaries, artifacts,
		filepath.Join(deps.OutputDir, target.Version, target.Arch))
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Image = image
	return outcome
}

// Compiles the target's manifest, dispatching each binary to its effective
// strategy. All-or-nothing: any strategy failure fails the whole target.
func buildTarget(ctx context.Context, deps Deps, spec release.VersionSpec, target release.BuildTarget, outDir string) (map[string]string, error) {
	artifacts := make(map[string]string, len(spec.Binaries))

	for _, kind := range []release.Strategy{release.StrategyContainer, release.StrategyHost} {
		subset := spec.BinariesFor(kind)
		if len(subset) == 0 {
			continue
		}

		strategy, ok := deps.Strategies[kind]
		if !ok {
			return nil, fmt.Errorf("%w: no %s strategy configured", build.ErrBuild, kind)
		}

		built, err := strategy.Build(ctx, target, subset, deps.SrcDir, outDir)
		if err != nil {
			return nil, err
		}
		for name, path := range built {
			artifacts[name] = path
		}
	}

	return artifacts, nil
}
