package build

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/reminthq/remint/internal/release"
	"github.com/reminthq/remint/internal/runtime"
)

// Directory inside the build container where the source tree is staged.
const containerSrcDir = "/src"

// Shell used for build commands inside the container.
const containerShell = "/bin/sh"

// ContainerStrategy compiles binaries inside an emulated build container.
//
// For each target a container is started from the builder archive with an
// explicit target platform; the pinned source tree is streamed in, the
// binary's build command runs under emulation, and the artifact is copied
// back out. The underlying toolchain is expected to honor the platform; when
// it silently compiles for the host instead, only the pipeline's
// classification gate notices.
type ContainerStrategy struct {
	RT       *runtime.Runtime // Container runtime.
	Builder  string           // Path to the builder OCI archive.
	Resource string           // Name prefix for container IDs.
}

func (s *ContainerStrategy) Build(ctx context.Context, target release.BuildTarget, binaries []release.Binary, srcDir, outDir string) (artifacts map[string]string, err error) {
	ctr, err := s.RT.StartContainer(ctx, s.Builder, s.containerID(target), target.Platform())
	if err != nil {
		return nil, fmt.Errorf("%w: starting builder: %w", ErrBuild, err)
	}
	defer ctr.Destroy(ctx)

	defer func() {
		if err != nil {
			discardArtifacts(outDir)
		}
	}()

	if err := s.stageSource(ctx, ctr, srcDir); err != nil {
		return nil, err
	}

	artifacts = make(map[string]string, len(binaries))
	for _, bin := range binaries {
		slog.Info("compiling in container", "binary", bin.Name, "platform", target.Platform())

		result, err := ctr.Exec(ctx, containerShell, bin.Command, targetEnv(target), containerSrcDir)
		if err != nil {
			return nil, fmt.Errorf("%w: compile %s: %w", ErrBuild, bin.Name, err)
		}
		if result.ExitCode != 0 {
			return nil, fmt.Errorf("%w: compile %s: exit code %d: %s", ErrBuild, bin.Name, result.ExitCode, strings.TrimSpace(result.Stderr))
		}

		hostPath, err := s.collectArtifact(ctx, ctr, bin, outDir)
		if err != nil {
			return nil, err
		}
		artifacts[bin.Name] = hostPath
	}

	return artifacts, nil
}

// Streams the pinned source tree into the container's staging directory.
func (s *ContainerStrategy) stageSource(ctx context.Context, ctr *runtime.Container, srcDir string) error {
	if err := ctr.MkdirAll(ctx, containerSrcDir); err != nil {
		return fmt.Errorf("%w: staging source: %w", ErrBuild, err)
	}

	pr, pw := io.Pipe()
	go func() {
		tw := tar.NewWriter(pw)
		writeErr := writeDirToTar(tw, srcDir, path.Base(containerSrcDir))
		tw.Close()
		pw.CloseWithError(writeErr)
	}()

	if err := ctr.CopyTo(ctx, pr, path.Dir(containerSrcDir)); err != nil {
		return fmt.Errorf("%w: staging source: %w", ErrBuild, err)
	}
	return nil
}

// Copies a compiled artifact out of the container into the target's output
// directory, returning its host path.
func (s *ContainerStrategy) collectArtifact(ctx context.Context, ctr *runtime.Container, bin release.Binary, outDir string) (string, error) {
	srcPath := path.Join(containerSrcDir, bin.Artifact)
	hostPath := filepath.Join(outDir, bin.Name)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(ctr.CopyFrom(ctx, pw, srcPath))
	}()

	if err := extractFileTo(hostPath, pr); err != nil {
		return "", fmt.Errorf("%w: collect %s: %w", ErrBuild, bin.Name, err)
	}
	return hostPath, nil
}

// Returns the container ID for a target's build, scoped to the resource.
func (s *ContainerStrategy) containerID(target release.BuildTarget) string {
	return fmt.Sprintf("%s-build-%s-%s", s.Resource, versionSlug(target.Version), target.Arch)
}

// Converts a version label to a filesystem- and container-ID-safe slug.
func versionSlug(version string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '-'
		}
	}, version)
}

// Removes partial build output after a failure. All-or-nothing per target.
func discardArtifacts(outDir string) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		os.RemoveAll(filepath.Join(outDir, e.Name()))
	}
}
