package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/reminthq/remint/internal"
	"github.com/reminthq/remint/internal/arch"
	"github.com/reminthq/remint/internal/paths"
	"github.com/reminthq/remint/internal/runtime"
	"github.com/reminthq/remint/internal/verify"
)

// Represents the 'remint verify' command.
type VerifyCmd struct {
	Version string `arg:"" help:"Version label whose binary manifest applies."`
	Arch    string `arg:"" help:"Architecture the image claims (e.g., arm64)."`
	Image   string `short:"i" help:"Path to the image archive. Defaults to the exported location." placeholder:"PATH"`
}

// Executes the verify command.
//
// Re-audits a previously built image: every binary in the version's manifest
// is classified and compared against the claimed architecture. The image is
// never modified. Exits non-zero when any binary fails.
func (c *VerifyCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	spec, ok := cfg.Version(c.Version)
	if !ok {
		return fmt.Errorf("unknown version %q", c.Version)
	}

	imagePath := c.Image
	if imagePath == "" {
		imagePath = filepath.Join(paths.Images(), c.Version, c.Arch, "image.tar")
	}
	if !runtime.ArchiveExists(imagePath) {
		return fmt.Errorf("image archive not found: %s", imagePath)
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctr, err := rt.StartContainer(ctx, imagePath, fmt.Sprintf("%s-audit-%s", internal.Name, c.Arch), "linux/"+c.Arch)
	if err != nil {
		return err
	}
	defer ctr.Destroy(ctx)

	report, err := verify.Image(ctx, ctr, spec.Binaries, arch.FamilyForArch(c.Arch))
	if err != nil {
		return err
	}

	renderReport(report, c.Arch)
	if !report.Passed() {
		return fmt.Errorf("verification failed: %d of %d binaries", len(report.Failures), report.Checked)
	}
	return nil
}
