package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/reminthq/remint/internal"
	"github.com/reminthq/remint/internal/build"
	"github.com/reminthq/remint/internal/gitrepo"
	"github.com/reminthq/remint/internal/paths"
	"github.com/reminthq/remint/internal/pipeline"
	"github.com/reminthq/remint/internal/release"
)

// Represents the 'remint build' command.
type BuildCmd struct {
	Version string `arg:"" help:"Version label to rebuild."`
	Repo    string `short:"r" default:"." help:"Path to the source working tree."`
	Output  string `short:"o" help:"Directory for exported images." placeholder:"DIR"`
}

// Executes the build command.
//
// Runs the build-and-verify pipeline for every target architecture of the
// requested version and renders each target's outcome. Exits non-zero when
// any target fails; sibling targets' images remain on disk.
func (c *BuildCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	spec, ok := cfg.Version(c.Version)
	if !ok {
		return fmt.Errorf("unknown version %q", c.Version)
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	repo, err := gitrepo.Open(c.Repo)
	if err != nil {
		return err
	}

	// Each run gets its own scratch directory so concurrent invocations
	// never share build output.
	workDir := filepath.Join(paths.Workspace(), uuid.NewString())
	if err := os.MkdirAll(workDir, paths.DefaultDirMode); err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	output := c.Output
	if output == "" {
		output = paths.Images()
	}

	resource := resourceName(cfg.Image)
	deps := pipeline.Deps{
		Source: repo,
		SrcDir: repo.Path(),
		Strategies: map[release.Strategy]build.Strategy{
			release.StrategyContainer: &build.ContainerStrategy{RT: rt, Builder: cfg.Builder, Resource: resource},
			release.StrategyHost:      &build.HostStrategy{},
		},
		Assembler: &build.Assembler{RT: rt, Base: cfg.Base, Resource: resource},
		WorkDir:   workDir,
		OutputDir: output,
	}

	outcomes, err := pipeline.Run(ctx, deps, spec, cfg.Targets(spec))
	renderOutcomes(outcomes)
	return err
}

// Derives a container-ID-safe resource name from the configured image name.
func resourceName(image string) string {
	if image == "" {
		return internal.Name
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '-'
		}
	}, image)
}
