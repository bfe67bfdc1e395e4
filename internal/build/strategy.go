package build

import (
	"context"

	"github.com/reminthq/remint/internal/release"
)

// Strategy compiles a subset of a version's binary manifest for one target.
//
// The returned map associates each binary's name with the path of its
// compiled artifact on the host. Building is all-or-nothing per target:
// implementations discard partial output and return an error when any single
// binary fails. Strategies cannot verify their own output; the pipeline's
// classification gate catches toolchains that ignored the target
// architecture.
type Strategy interface {
	Build(ctx context.Context, target release.BuildTarget, binaries []release.Binary, srcDir, outDir string) (map[string]string, error)
}

// Environment passed to build commands so they can reference the target
// explicitly (e.g., "make server GOARCH=$TARGETARCH").
func targetEnv(target release.BuildTarget) []string {
	return []string{
		"TARGETOS=linux",
		"TARGETARCH=" + target.Arch,
	}
}
