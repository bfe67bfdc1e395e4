package diff

import (
	"path"
	"sort"

	"github.com/reminthq/remint/internal/arch"
	"github.com/reminthq/remint/internal/inventory"
)

// Kind tags a diff entry.
type Kind string

const (
	// Added means the path exists only in the candidate.
	Added Kind = "added"

	// Removed means the path exists only in the reference.
	Removed Kind = "removed"

	// Changed means the path exists in both but differs in size or, for
	// manifest binaries, in architecture family.
	Changed Kind = "changed"
)

// One structural discrepancy between a reference and a candidate image.
//
// Added entries carry the candidate size in NewSize; Removed entries carry
// the reference size in OldSize; Changed entries carry both, plus the
// per-side architecture families when the path is a manifest binary.
type Entry struct {
	Kind    Kind
	Path    string
	OldSize int64 // Reference size (Removed, Changed).
	NewSize int64 // Candidate size (Added, Changed).

	// Architecture families for manifest binaries, empty otherwise.
	OldFamily arch.Family // Family in the reference image.
	NewFamily arch.Family // Family in the candidate image.
}

// Architecture classification of one manifest binary on both sides of the
// comparison.
type BinaryArch struct {
	Path      string      // In-image path of the binary.
	Reference arch.Family // Family found in the reference image.
	Candidate arch.Family // Family found in the candidate image.
}

// Compares two inventories and reports the discrepancies.
//
// Classification is total and exhaustive over the union of paths: a path
// present on one side only becomes Added or Removed; a path present on both
// sides becomes Changed when the sizes differ or, for manifest binaries,
// when the architecture family differs; a binary with identical size but a
// different architecture is still a reportable discrepancy. Paths identical
// on both sides produce nothing. The result is ordered by directory then
// file name, matching inventory order. Pure function: the inputs are never
// modified.
func Compare(reference, candidate []inventory.Entry, binaries []BinaryArch) []Entry {
	refSizes := sizesByPath(reference)
	candSizes := sizesByPath(candidate)
	families := make(map[string]BinaryArch, len(binaries))
	for _, b := range binaries {
		families[b.Path] = b
	}

	var entries []Entry
	for _, p := range unionPaths(refSizes, candSizes) {
		oldSize, inRef := refSizes[p]
		newSize, inCand := candSizes[p]

		switch {
		case inRef && !inCand:
			entries = append(entries, Entry{Kind: Removed, Path: p, OldSize: oldSize})

		case !inRef && inCand:
			entries = append(entries, Entry{Kind: Added, Path: p, NewSize: newSize})

		default:
			fam, isBinary := families[p]
			archChanged := isBinary && fam.Reference != fam.Candidate
			if oldSize == newSize && !archChanged {
				continue
			}
			entry := Entry{Kind: Changed, Path: p, OldSize: oldSize, NewSize: newSize}
			if isBinary {
				entry.OldFamily = fam.Reference
				entry.NewFamily = fam.Candidate
			}
			entries = append(entries, entry)
		}
	}

	return entries
}

func sizesByPath(entries []inventory.Entry) map[string]int64 {
	sizes := make(map[string]int64, len(entries))
	for _, e := range entries {
		sizes[e.Path] = e.Size
	}
	return sizes
}

// Returns the union of both key sets, sorted by directory then file name.
func unionPaths(a, b map[string]int64) []string {
	union := make([]string, 0, len(a)+len(b))
	for p := range a {
		union = append(union, p)
	}
	for p := range b {
		if _, ok := a[p]; !ok {
			union = append(union, p)
		}
	}

	sort.Slice(union, func(i, j int) bool {
		di, bi := path.Split(union[i])
		dj, bj := path.Split(union[j])
		if di != dj {
			return di < dj
		}
		return bi < bj
	})
	return union
}
