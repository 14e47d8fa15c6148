package presentation

import (
	"fmt"
	"io"

	"extidy/internal/domain"
)

// Printer renders previews and run summaries for plain (non-TUI) output.
type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintPreview(plan domain.TransferPlan) {
	verb := transferVerb(plan.Copy)
	fmt.Fprintf(p.Writer, "%s from %s to %s (extensions: %s)\n", verb, plan.SourceDir, plan.DestDir, plan.Extensions)
	fmt.Fprintln(p.Writer)

	if len(plan.Entries) == 0 {
		fmt.Fprintln(p.Writer, "No matching files found.")
		return
	}

	for _, line := range formatEntryLines(plan.Entries) {
		fmt.Fprintln(p.Writer, line)
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "%d files, %s total.\n", len(plan.Entries), formatBytes(plan.TotalBytes()))
}

func (p Printer) PrintSummary(summary domain.Summary) {
	if summary.NoMatches {
		fmt.Fprintln(p.Writer, "No matching files found. Nothing to do.")
		return
	}

	verb := "Moved"
	if summary.Copy {
		verb = "Copied"
	}

	for _, o := range summary.Outcomes {
		switch o.Status {
		case domain.StatusFailed:
			fmt.Fprintf(p.Writer, "failed  %s: %s\n", o.SourcePath, o.Reason)
		case domain.StatusSkipped:
			fmt.Fprintf(p.Writer, "skipped %s (%s)\n", o.SourcePath, o.Reason)
		default:
			if o.Renamed {
				fmt.Fprintf(p.Writer, "%-7s %s -> %s\n", o.Status, o.SourcePath, o.DestPath)
			} else if p.Verbose {
				fmt.Fprintf(p.Writer, "%-7s %s\n", o.Status, o.SourcePath)
			}
		}
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "%s %d files (%s), %d failed, %d skipped.\n",
		verb, summary.Succeeded, formatBytes(summary.Bytes), summary.Failed, summary.Skipped)

	if p.Verbose {
		fmt.Fprintf(p.Writer, "Run ID: %s\n", summary.RunID)
	}
	if summary.Failed > 0 {
		fmt.Fprintln(p.Writer, "Some files could not be transferred; see the lines above.")
	}
}

func formatEntryLines(entries []domain.FileEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s  %s", e.SourcePath, formatBytes(e.Size)))
	}

	if len(lines) <= 12 {
		return lines
	}
	head := lines[:6]
	tail := lines[len(lines)-6:]
	middle := fmt.Sprintf("... %d more ...", len(lines)-12)
	return append(append(head, middle), tail...)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func transferVerb(copyMode bool) string {
	if copyMode {
		return "Copying"
	}
	return "Moving"
}
