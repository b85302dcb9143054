package display

import (
	"fmt"
	"io"
	"strings"

	"mystravastats/internal/service"
)

// ProgressPrinter writes sync progress as it arrives. A live printer redraws
// one line per phase; otherwise only phase changes are printed.
type ProgressPrinter struct {
	out   io.Writer
	live  bool
	phase string
}

// NewProgressPrinter creates a printer writing to out
func NewProgressPrinter(out io.Writer, live bool) *ProgressPrinter {
	return &ProgressPrinter{out: out, live: live}
}

// Print reports one progress update
func (p *ProgressPrinter) Print(update service.SyncProgress) {
	if update.Phase != p.phase {
		if p.live && p.phase != "" {
			fmt.Fprintln(p.out)
		}
		p.phase = update.Phase
		if !p.live {
			fmt.Fprintf(p.out, "%s...\n", phaseLabel(update.Phase))
			return
		}
	}
	if !p.live {
		return
	}

	line := "  " + phaseLabel(update.Phase)
	if update.Total > 0 {
		percent := float64(update.Completed) / float64(update.Total)
		line += fmt.Sprintf("  %s  %d/%d", RenderProgressBar(percent, 30), update.Completed, update.Total)
	}
	if update.CurrentActivity != "" {
		line += "  " + statusStyle.Render(truncate(update.CurrentActivity, 30))
	}
	// Clear the rest of the previous, possibly longer, line
	fmt.Fprintf(p.out, "\r%s\x1b[K", line)
}

// Finish ends the live line
func (p *ProgressPrinter) Finish() {
	if p.live && p.phase != "" {
		fmt.Fprintln(p.out)
	}
}

// RenderProgressBar renders a bar of width cells filled to percent
func RenderProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)
	return successStyle.Render(strings.Repeat("█", filled)) + statusStyle.Render(strings.Repeat("░", width-filled))
}

func phaseLabel(phase string) string {
	switch phase {
	case service.PhaseActivities:
		return "Fetching new activities"
	case service.PhaseStreams:
		return "Downloading stream data"
	case service.PhaseEfforts:
		return "Updating best efforts"
	}
	return "Connecting to Strava"
}

// RenderSyncSummary renders the outcome of a sync
func RenderSyncSummary(r *service.SyncResult, err error) string {
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("  Sync failed: %v", err))
	}
	if r == nil {
		return ""
	}

	var lines []string
	lines = append(lines, successStyle.Render("  Sync complete!"))

	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d activities synced", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new activities"))
	}
	if r.StreamsFetched > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d streams downloaded", r.StreamsFetched)))
	}
	if r.EffortsUpdated > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d best efforts improved", r.EffortsUpdated)))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
		for _, e := range r.Errors {
			lines = append(lines, statusStyle.Render("    "+e.Error()))
		}
	}
	return strings.Join(lines, "\n")
}
