package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"mystravastats/internal/analysis"
	"mystravastats/internal/service"
)

const slopeRowFormat = "  %-8s  %11s  %11s  %8s  %8s  %8s  %10s"

func slopeStyle(t analysis.SlopeType) lipgloss.Style {
	switch t {
	case analysis.Ascent:
		return ascentStyle
	case analysis.Descent:
		return descentStyle
	}
	return plateauStyle
}

// RenderSlopes renders an activity's segmentation with its altitude profile
func RenderSlopes(r *service.SlopeReport, u Units) string {
	var sections []string

	a := r.Activity
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s (%s, %s)", a.Name, a.Type, a.StartDateLocal.Format("2006-01-02"))))

	if len(r.Altitude) > 1 {
		chart := asciigraph.Plot(r.Altitude,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Precision(0),
			asciigraph.Caption("altitude (m)"),
		)
		sections = append(sections, cardStyle.Render(chart))
	}

	if len(r.Slopes) == 0 {
		sections = append(sections, statusStyle.Render("  No slopes found. The activity may lack altitude data."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, sectionHeader("Slopes"))
	sections = append(sections, tableHeaderStyle.Render(fmt.Sprintf(slopeRowFormat,
		"Type", "Start", "End", "Distance", "Grade", "Max", "Speed")))
	for _, s := range r.Slopes {
		row := fmt.Sprintf(slopeRowFormat,
			s.Type,
			fmt.Sprintf("%.0f m", s.StartAltitude),
			fmt.Sprintf("%.0f m", s.EndAltitude),
			u.FormatDistance(s.Distance),
			fmt.Sprintf("%.1f%%", s.Grade),
			fmt.Sprintf("%.1f%%", s.MaxGrade),
			u.FormatSpeed(s.AverageSpeed),
		)
		sections = append(sections, slopeStyle(s.Type).Render(row))
	}

	if len(r.Climbs) > 0 {
		var climbs []string
		climbs = append(climbs, "", sectionHeader("Climbs"))
		for _, c := range r.Climbs {
			climbs = append(climbs, fmt.Sprintf("  %-40s  +%.0f m over %s in %s",
				c.Label, c.DeltaAltitude, u.FormatDistance(c.Distance), analysis.FormatSeconds(c.Seconds)))
		}
		sections = append(sections, strings.Join(climbs, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
