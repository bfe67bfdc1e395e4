package build

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/reminthq/remint/internal/release"
)

// Shell used for host build commands.
const hostShell = "/bin/sh"

// HostStrategy compiles binaries by invoking the toolchain directly on the
// host with explicit target-architecture environment.
//
// This exists because the containerized path is known to be defective for a
// subset of binaries: an upstream build-system layer drops the target
// architecture and silently compiles for the host. Bypassing that layer and
// passing TARGETOS/TARGETARCH straight to the toolchain works around the
// defect. The workaround is selected per binary via the manifest's strategy
// override, since binaries in the same version mix correct and defective
// build paths.
type HostStrategy struct {

	// Runs one build command in dir with the given extra environment.
	// Overridable in tests; nil uses the host shell.
	runCommand func(ctx context.Context, dir, command string, env []string) error
}

func (s *HostStrategy) Build(ctx context.Context, target release.BuildTarget, binaries []release.Binary, srcDir, outDir string) (artifacts map[string]string, err error) {
	run := s.runCommand
	if run == nil {
		run = runHostCommand
	}

	defer func() {
		if err != nil {
			discardArtifacts(outDir)
		}
	}()

	artifacts = make(map[string]string, len(binaries))
	for _, bin := range binaries {
		slog.Info("compiling on host", "binary", bin.Name, "arch", target.Arch)

		if err := run(ctx, srcDir, bin.Command, targetEnv(target)); err != nil {
			return nil, fmt.Errorf("%w: compile %s: %w", ErrBuild, bin.Name, err)
		}

		hostPath := filepath.Join(outDir, bin.Name)
		if err := copyFile(hostPath, filepath.Join(srcDir, bin.Artifact)); err != nil {
			return nil, fmt.Errorf("%w: collect %s: %w", ErrBuild, bin.Name, err)
		}
		artifacts[bin.Name] = hostPath
	}

	return artifacts, nil
}

// Runs a build command through the host shell in the source tree.
func runHostCommand(ctx context.Context, dir, command string, env []string) error {
	cmd := exec.CommandContext(ctx, hostShell, "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
