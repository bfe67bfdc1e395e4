// Package verify checks that built images contain binaries compiled for the
// architecture they claim.
//
// Verification runs the architecture classifier over a fixed binary manifest
// and aggregates the verdicts. A mismatch or a missing binary is a normal
// reportable outcome, not an error: verdicts are data the caller renders and
// acts on. Only an unreadable image raises an error.
//
// The same verdict rules gate the build pipeline before an image is
// assembled and drive the standalone "remint verify" audit of images built
// earlier.
package verify
