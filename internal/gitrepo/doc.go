// Package gitrepo implements the pipeline's source-control capability on a
// local git working tree using go-git.
//
// Position and Checkout round-trip: the string Position returns (branch name
// or detached commit hash) is accepted by Checkout, which is how the
// pipeline restores the tree after a run.
package gitrepo
