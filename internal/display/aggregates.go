package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"mystravastats/internal/analysis"
	"mystravastats/internal/service"
)

// RenderAggregates renders whole-collection totals, the Eddington number and streaks
func RenderAggregates(r *service.AggregateReport, u Units) string {
	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s overview", r.ActivityType)))

	if r.Summary.Activities == 0 {
		sections = append(sections, statusStyle.Render("  No activities of this type. Run a sync first."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	s := r.Summary
	summary := []string{
		cardTitleStyle.Render("Totals"),
		RenderMetric("Activities", fmt.Sprintf("%d", s.Activities)),
		RenderMetric("Active days", fmt.Sprintf("%d", s.ActiveDays)),
		RenderMetric("Distance", u.FormatTotalDistance(s.TotalDistance)),
		RenderMetric("Elevation", u.FormatElevation(s.TotalElevation)),
		RenderMetric("Per activity", u.FormatDistance(s.KmPerActivity*1000)),
		RenderMetric("Longest streak", fmt.Sprintf("%d days", r.MaxStreak)),
	}
	if r.HasBestDay {
		summary = append(summary, RenderMetric("Best day", fmt.Sprintf("%s  %s", formatDay(r.BestDay.Key), u.FormatDistance(r.BestDay.Value))))
	}
	if r.HasElevationDay {
		summary = append(summary, RenderMetric("Most climbing", fmt.Sprintf("%s  %s", formatDay(r.BestElevationDay.Key), u.FormatElevation(r.BestElevationDay.Value))))
	}
	if r.HasActiveMonth {
		summary = append(summary, RenderMetric("Most active month", fmt.Sprintf("%s  %s", r.MostActiveMonth.Key, u.FormatTotalDistance(r.MostActiveMonth.Value))))
	}
	sections = append(sections, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, summary...)))

	eddington := []string{
		cardTitleStyle.Render(fmt.Sprintf("Eddington number: %d", r.Eddington)),
	}
	if next := r.Eddington + 1; next <= len(r.EddingtonCounts) {
		eddington = append(eddington, statusStyle.Render(fmt.Sprintf("%d more days of %d km for E=%d", next-r.EddingtonCounts[next-1], next, next)))
	} else {
		eddington = append(eddington, statusStyle.Render(fmt.Sprintf("%d days of %d km needed for E=%d", next, next, next)))
	}
	if len(r.EddingtonCounts) > 1 {
		eddington = append(eddington, asciigraph.Plot(toFloats(r.EddingtonCounts),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Precision(0),
			asciigraph.Caption("days with at least N km"),
		))
	}
	sections = append(sections, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, eddington...)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// formatDay renders a day key as "Sun 5 May 2024"
func formatDay(key string) string {
	d, err := analysis.ParseDay(key)
	if err != nil {
		return key
	}
	return d.Format("Mon 2 Jan 2006")
}
