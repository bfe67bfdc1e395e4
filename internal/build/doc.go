// Package build compiles a version's binaries and assembles them into images.
//
// Two build strategies exist. ContainerStrategy runs each binary's build
// command inside an emulated container started for the target platform.
// HostStrategy runs the command directly on the host with explicit
// TARGETOS/TARGETARCH environment, bypassing an upstream build layer that
// drops the target architecture for a subset of binaries. The strategy is
// fixed by the release configuration, per version with per-binary overrides,
// and is never inferred from build output.
//
// Both strategies are all-or-nothing per target: a single binary's failure
// discards that target's partial output. Neither strategy verifies its own
// result; the pipeline classifies every produced binary before assembly.
//
// The Assembler packages verified artifacts into the final per-target OCI
// archive by copying each binary to its expected in-image path inside a
// container started from the base archive and exporting the result.
package build
