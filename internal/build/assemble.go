package build

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/reminthq/remint/internal/paths"
	"github.com/reminthq/remint/internal/release"
	"github.com/reminthq/remint/internal/runtime"
)

// Packages verified per-target binaries into the final image artifact.
type Assembler struct {
	RT       *runtime.Runtime // Container runtime.
	Base     string           // Path to the base OCI archive the image is built on.
	Resource string           // Name prefix for container IDs.
}

// Assembles the image for one target from the compiled artifacts.
//
// A container is started from the base archive for the target platform, each
// binary is copied to its expected in-image path, and the result is exported
// as an OCI archive in outputDir. The archive's image config records the
// target platform. Returns the path of the exported archive.
func (a *Assembler) Assemble(ctx context.Context, target release.BuildTarget, binaries []release.Binary, artifacts map[string]string, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	id := fmt.Sprintf("%s-assemble-%s-%s", a.Resource, versionSlug(target.Version), target.Arch)
	ctr, err := a.RT.StartContainer(ctx, a.Base, id, target.Platform())
	if err != nil {
		return "", fmt.Errorf("%w: starting base: %w", ErrAssemble, err)
	}
	defer ctr.Destroy(ctx)

	for _, bin := range binaries {
		hostPath, ok := artifacts[bin.Name]
		if !ok {
			return "", fmt.Errorf("%w: no artifact for %s", ErrAssemble, bin.Name)
		}
		if err := installBinary(ctx, ctr, hostPath, bin.Path); err != nil {
			return "", fmt.Errorf("%w: installing %s: %w", ErrAssemble, bin.Name, err)
		}
	}

	if err := ctr.Stop(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssemble, err)
	}

	image, err := ctr.Export(ctx, outputDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssemble, err)
	}

	slog.Info("image assembled", "target", target.String(), "image", image)
	return image, nil
}

// Copies one compiled binary into the container at its in-image path.
func installBinary(ctx context.Context, ctr *runtime.Container, hostPath, imagePath string) error {
	destDir := path.Dir(imagePath)
	if err := ctr.MkdirAll(ctx, destDir); err != nil {
		return err
	}

	pr, pw := io.Pipe()
	go func() {
		tw := tar.NewWriter(pw)
		writeErr := writeFileToTar(tw, hostPath, path.Base(imagePath))
		tw.Close()
		pw.CloseWithError(writeErr)
	}()

	return ctr.CopyTo(ctx, pr, destDir)
}
