package pipeline

import "errors"

var (
	// ErrRevision means the pinned revision could not be resolved or checked
	// out. Fatal: no build work starts.
	ErrRevision = errors.New("revision resolution failed")

	// ErrSubmodules means nested source dependencies could not be
	// materialized. Fatal: no build work starts.
	ErrSubmodules = errors.New("submodule sync failed")

	// ErrVerdict marks a target whose binaries failed architecture
	// classification. Per-target: sibling targets continue.
	ErrVerdict = errors.New("architecture verification failed")

	// ErrTargetFailed is returned when one or more targets failed. The
	// per-target outcomes carry the details; assembled sibling images remain
	// valid.
	ErrTargetFailed = errors.New("one or more targets failed")

	// ErrRestore means the source tree could not be returned to its original
	// position. Surfaced loudly: the caller's workspace state is corrupted.
	ErrRestore = errors.New("failed to restore source tree")
)
