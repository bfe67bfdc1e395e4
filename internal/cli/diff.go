package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/reminthq/remint/internal"
	"github.com/reminthq/remint/internal/arch"
	"github.com/reminthq/remint/internal/diff"
	"github.com/reminthq/remint/internal/inventory"
	"github.com/reminthq/remint/internal/paths"
	"github.com/reminthq/remint/internal/release"
	"github.com/reminthq/remint/internal/runtime"
)

// Represents the 'remint diff' command.
type DiffCmd struct {
	Version   string `arg:"" help:"Version label whose binary manifest applies."`
	Arch      string `arg:"" help:"Architecture of both images (e.g., amd64)."`
	Reference string `required:"" help:"Path to the published reference image archive." placeholder:"PATH"`
	Candidate string `help:"Path to the candidate archive. Defaults to the exported location." placeholder:"PATH"`
}

// Executes the diff command.
//
// Inventories both images over the configured roots, classifies the
// manifest binaries on each side, and renders the structural differences.
func (c *DiffCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	spec, ok := cfg.Version(c.Version)
	if !ok {
		return fmt.Errorf("unknown version %q", c.Version)
	}

	candidate := c.Candidate
	if candidate == "" {
		candidate = filepath.Join(paths.Images(), c.Version, c.Arch, "image.tar")
	}
	for _, archive := range []string{c.Reference, candidate} {
		if !runtime.ArchiveExists(archive) {
			return fmt.Errorf("image archive not found: %s", archive)
		}
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	platform := "linux/" + c.Arch

	refCtr, err := rt.StartContainer(ctx, c.Reference, fmt.Sprintf("%s-diff-ref-%s", internal.Name, c.Arch), platform)
	if err != nil {
		return err
	}
	defer refCtr.Destroy(ctx)

	candCtr, err := rt.StartContainer(ctx, candidate, fmt.Sprintf("%s-diff-cand-%s", internal.Name, c.Arch), platform)
	if err != nil {
		return err
	}
	defer candCtr.Destroy(ctx)

	refInv, err := inventory.List(ctx, refCtr, cfg.Roots)
	if err != nil {
		return err
	}
	candInv, err := inventory.List(ctx, candCtr, cfg.Roots)
	if err != nil {
		return err
	}

	binaries, err := classifySides(ctx, refCtr, candCtr, spec.Binaries)
	if err != nil {
		return err
	}

	renderDiff(diff.Compare(refInv, candInv, binaries))
	return nil
}

// Classifies each manifest binary in both images.
//
// A binary missing from one side classifies as the unknown family there; the
// size-based diff already reports its absence.
func classifySides(ctx context.Context, ref, cand *runtime.Container, binaries []release.Binary) ([]diff.BinaryArch, error) {
	out := make([]diff.BinaryArch, 0, len(binaries))
	for _, bin := range binaries {
		refFam, err := classifySide(ctx, ref, bin.Path)
		if err != nil {
			return nil, err
		}
		candFam, err := classifySide(ctx, cand, bin.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, diff.BinaryArch{Path: bin.Path, Reference: refFam, Candidate: candFam})
	}
	return out, nil
}

func classifySide(ctx context.Context, ctr *runtime.Container, path string) (arch.Family, error) {
	data, err := ctr.ReadFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return arch.Unknown, nil
	}
	if err != nil {
		return arch.Unknown, err
	}
	return arch.ClassifyBytes(data), nil
}
