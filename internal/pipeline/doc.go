// Package pipeline orchestrates the per-version build-and-verify lifecycle.
//
// A run moves through a fixed sequence: record the source tree's current
// position, check out the version's pinned revision, sync submodules, then
// for each (version, architecture) target compile the binary manifest via
// the configured strategy, classify every produced binary, and assemble the
// verified binaries into a per-target image archive. The source tree is
// returned to its recorded position on every exit path, including failure
// and cancellation, so a run never leaves the caller's workspace pinned.
//
// Failure is partial, not total: a target whose build or classification
// fails is reported in its outcome while sibling targets continue and keep
// their assembled images. Only revision resolution and submodule sync abort
// the whole run, since no build work is possible without a pinned tree.
//
// Targets are processed sequentially but share nothing beyond the pinned
// tree: each gets its own scratch and output directories, so the per-target
// stage can be parallelized by callers without reshaping the data flow.
package pipeline
