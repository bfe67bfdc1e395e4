// Package release defines the static configuration for rebuildable releases.
//
// A release configuration names the image being rebuilt, the base and builder
// archives, the in-image roots tracked by inventory and diff, the target
// architecture set, and one VersionSpec per supported release line. Each
// VersionSpec pins a source revision and carries a fixed binary manifest.
//
// The build strategy is configuration, never inferred: a version declares its
// default strategy and individual binaries may override it. The override
// exists because the upstream build system silently drops the target
// architecture for a subset of binaries, which must then be compiled directly
// on the host.
//
// Configurations are loaded once per run and never mutated.
package release
