package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mystravastats/internal/analysis"
	"mystravastats/internal/service"
	"mystravastats/internal/store"
)

const effortRowFormat = "  %-26s  %12s  %14s  %s"

// effortValue returns the headline number and its supporting detail for a search kind
func (u Units) effortValue(kind analysis.Kind, e *analysis.Effort) (string, string) {
	switch kind {
	case analysis.TimeForDistance:
		return analysis.FormatSeconds(e.Seconds), u.FormatEffortSpeed(e)
	case analysis.DistanceForTime:
		return u.FormatDistance(e.Distance), u.FormatEffortSpeed(e)
	case analysis.ElevationForDistance:
		return e.FormattedGradient(), fmt.Sprintf("+%.0f m", e.DeltaAltitude)
	case analysis.PowerForTime:
		return e.FormattedPower(), u.FormatEffortSpeed(e)
	}
	return "-", ""
}

// RenderEfforts renders every catalogue statistic of a report
func RenderEfforts(r *service.EffortReport, u Units) string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s statistics", r.ActivityType)))

	if len(r.Results) == 0 {
		sections = append(sections, statusStyle.Render("  No statistics are defined for this activity type."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, statusStyle.Render(fmt.Sprintf("  %d activities analysed", r.Activities)), "")
	sections = append(sections, sectionHeader("Best efforts"))
	sections = append(sections, tableHeaderStyle.Render(fmt.Sprintf(effortRowFormat, "Statistic", "Value", "Detail", "Activity")))

	for _, res := range r.Results {
		if res.Effort == nil {
			sections = append(sections, statusStyle.Render(fmt.Sprintf(effortRowFormat, res.Search.Name, "-", "", "")))
			continue
		}
		value, detail := u.effortValue(res.Search.Kind, res.Effort)
		sections = append(sections, fmt.Sprintf(effortRowFormat,
			res.Search.Name, value, detail, truncate(res.Effort.Activity.Name, 30)))
	}

	if r.CooperVO2max > 0 || r.VO2maxSpeed > 0 || r.VDOT > 0 {
		sections = append(sections, "", sectionHeader("Fitness estimates"))
		if r.CooperVO2max > 0 {
			sections = append(sections, RenderMetric("  Cooper VO2max", fmt.Sprintf("%.1f ml/kg/min", r.CooperVO2max)))
		}
		if r.VO2maxSpeed > 0 {
			sections = append(sections, RenderMetric("  VO2max speed", u.FormatSpeed(r.VO2maxSpeed/3.6)))
		}
		if r.VDOT > 0 {
			vdot := fmt.Sprintf("%.1f (%s)", r.VDOT, analysis.VDOTLevel(r.VDOT))
			if r.VDOTEffort != nil {
				vdot += " from " + truncate(r.VDOTEffort.Activity.Name, 30)
			}
			sections = append(sections, RenderMetric("  VDOT", vdot))
			for _, p := range r.Predictions {
				sections = append(sections, RenderMetric("    "+p.Name, fmt.Sprintf("%s  (%s)", analysis.FormatSeconds(p.Seconds), u.FormatPace(p.Seconds, p.Distance))))
			}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderCachedEfforts renders the stored best effort rows without recomputing them
func RenderCachedEfforts(activityType string, efforts []store.BestEffort, u Units) string {
	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("%s cached statistics", activityType)))

	if len(efforts) == 0 {
		lines = append(lines, statusStyle.Render("  Nothing cached yet. Run a sync or `efforts` first."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf(effortRowFormat, "Statistic", "Value", "Activity", "Computed")))
	for _, be := range efforts {
		e := &analysis.Effort{
			Distance:      be.Distance,
			Seconds:       be.Seconds,
			DeltaAltitude: be.DeltaAltitude,
			AveragePower:  be.AveragePower,
			Activity:      analysis.ActivityRef{ID: be.ActivityID, Type: activityType},
		}
		value := "-"
		for _, kind := range []analysis.Kind{analysis.TimeForDistance, analysis.DistanceForTime, analysis.ElevationForDistance, analysis.PowerForTime} {
			if kind.String() == be.Kind {
				value, _ = u.effortValue(kind, e)
			}
		}
		lines = append(lines, fmt.Sprintf(effortRowFormat,
			be.Statistic, value, fmt.Sprintf("#%d", be.ActivityID), FormatAgo(be.ComputedAt)))
	}
	return strings.Join(lines, "\n")
}
