package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/model"
)

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
)

// PrintSummary writes the totals followed by every group and its members
func PrintSummary(w io.Writer, result *core.ScanResult) {
	fmt.Fprintf(w, "\n%s\n", heavyRule)
	fmt.Fprintln(w, "DUPLICATE FILE SCAN RESULTS")
	fmt.Fprintln(w, heavyRule)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d unreadable file(s)\n", len(result.Skipped))
	}
	if result.Delta != nil {
		fmt.Fprintf(w, "Since last scan (%s): %s\n",
			result.Delta.Since.Local().Format("2006-01-02 15:04"), result.Delta)
	}

	if len(result.Groups) == 0 {
		fmt.Fprintln(w, "\nNo duplicate files found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d duplicate group(s), %d duplicate file(s)\n",
		result.Stats.GroupCount, result.Stats.DuplicateFileCount)
	fmt.Fprintf(w, "Space that can be recovered: %s\n", model.FormatBytes(result.Stats.WastedBytes))

	fmt.Fprintf(w, "\n%s\n", lightRule)
	for i, g := range result.Groups {
		fmt.Fprintf(w, "\nGroup %d - %s (%d files)\n", i+1, model.FormatBytes(g.Size), len(g.Members))
		for _, m := range g.Members {
			fmt.Fprintf(w, "  %s\n", m.Path)
		}
	}
	fmt.Fprintf(w, "\n%s\n", lightRule)
}

// PrintDeletions lists what a removal did, or would do on a dry run
func PrintDeletions(w io.Writer, report core.DeleteReport) {
	verb, freed := "Deleted", "Freed"
	if report.DryRun {
		verb, freed = "Would delete", "Would free"
	}

	for _, p := range report.Deleted {
		fmt.Fprintf(w, "%s: %s\n", verb, p)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "Failed to delete %s: %v\n", f.Path, f.Err)
	}
	fmt.Fprintf(w, "\n%s %s across %d file(s)\n", freed, model.FormatBytes(report.BytesFreed), len(report.Deleted))
	if !report.DryRun && report.Freed.Lifetime > 0 {
		fmt.Fprintf(w, "Lifetime total: %s\n", model.FormatBytes(report.Freed.Lifetime))
	}
}
