// Package diff compares the file sets of two built images.
//
// The engine consumes two inventories (reference and candidate) plus the
// architecture classification of the configured binaries on each side, and
// emits a structured report of added, removed, and changed files. Size
// equality alone does not make a binary equal: an architecture flip with an
// identical byte size is still reported. The output is deterministic and
// follows inventory ordering.
package diff
