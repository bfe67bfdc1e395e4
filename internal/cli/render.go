package cli

import (
	"fmt"
	"sort"

	"github.com/reminthq/remint/internal/diff"
	"github.com/reminthq/remint/internal/pipeline"
	"github.com/reminthq/remint/internal/verify"
)

// Renders one line per pipeline target, with per-binary verdicts for the
// targets that produced them.
func renderOutcomes(outcomes []pipeline.Outcome) {
	for _, outcome := range outcomes {
		switch {
		case outcome.Failed():
			fmt.Printf("FAIL  %s: %v\n", outcome.Target.String(), outcome.Err)
		default:
			fmt.Printf("OK    %s: %s\n", outcome.Target.String(), outcome.Image)
		}

		for _, name := range sortedVerdicts(outcome.Verdicts) {
			fmt.Printf("      %-10s %s\n", outcome.Verdicts[name], name)
		}
	}
}

func sortedVerdicts(verdicts map[string]verify.Verdict) []string {
	names := make([]string, 0, len(verdicts))
	for name := range verdicts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Renders a verification report: a summary line, then one line per failure.
func renderReport(report *verify.Report, claimed string) {
	if report.Passed() {
		fmt.Printf("OK    %d binaries are %s\n", report.Checked, claimed)
		return
	}

	fmt.Printf("FAIL  %d of %d binaries\n", len(report.Failures), report.Checked)
	for _, failure := range report.Failures {
		switch failure.Verdict {
		case verify.NotFound:
			fmt.Printf("      %-10s %s\n", failure.Verdict, failure.Binary.Path)
		default:
			fmt.Printf("      %-10s %s is %s, want %s\n", failure.Verdict, failure.Binary.Path, failure.Family, claimed)
		}
	}
}

// Renders image differences, one line per entry:
//
//	+ path (size)                               added in the candidate
//	- path (size)                               removed from the reference
//	~ path old -> new bytes [fam -> fam]        present in both but different
func renderDiff(entries []diff.Entry) {
	if len(entries) == 0 {
		fmt.Println("images are identical over the inspected roots")
		return
	}

	for _, entry := range entries {
		switch entry.Kind {
		case diff.Added:
			fmt.Printf("+ %s (%d bytes)\n", entry.Path, entry.NewSize)
		case diff.Removed:
			fmt.Printf("- %s (%d bytes)\n", entry.Path, entry.OldSize)
		case diff.Changed:
			line := fmt.Sprintf("~ %s %d -> %d bytes", entry.Path, entry.OldSize, entry.NewSize)
			if entry.OldFamily != entry.NewFamily {
				line += fmt.Sprintf(" [%s -> %s]", entry.OldFamily, entry.NewFamily)
			}
			fmt.Println(line)
		}
	}
	fmt.Printf("%d differences\n", len(entries))
}
