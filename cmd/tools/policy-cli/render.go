package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"insurance-workers/internal/models"
	"insurance-workers/internal/policy"
)

var (
	colorBest     = lipgloss.Color("#22C55E")
	colorNegative = lipgloss.Color("#EF4444")
	colorMuted    = lipgloss.Color("#6B7280")
	colorPrimary  = lipgloss.Color("#3B82F6")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	featureStyle = lipgloss.NewStyle().Width(26)

	cellStyles = map[policy.CellStyle]lipgloss.Style{
		policy.StyleBest:     lipgloss.NewStyle().Foreground(colorBest).Bold(true),
		policy.StyleNegative: lipgloss.NewStyle().Foreground(colorNegative),
		policy.StyleNeutral:  lipgloss.NewStyle(),
		policy.StyleEmpty:    lipgloss.NewStyle().Foreground(colorMuted),
	}
)

const cellWidth = 32

var ruleDescriptions = map[policy.Direction]string{
	policy.DirectionHigher:   "longest post-hospitalization cover wins",
	policy.DirectionLower:    "shortest waiting period wins",
	policy.DirectionPresence: "Yes when any policy offers it",
	policy.DirectionLadder:   strings.Join(policy.RoomRentLadder, " > "),
	policy.DirectionNone:     "no best value",
}

func renderRecommendations(recs []models.PolicyRecord, applied []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recommended policies") + "\n")
	if len(applied) > 0 {
		b.WriteString(subtleStyle.Render("filters: "+strings.Join(applied, ", ")) + "\n")
	}
	b.WriteString("\n")

	if len(recs) == 0 {
		b.WriteString(subtleStyle.Render("No policy matches these answers.") + "\n")
		return b.String()
	}
	for i, p := range recs {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, headerStyle.Render(p.Name), subtleStyle.Render(p.Company))
		fmt.Fprintf(&b, "   %s / year, cover %s, %s\n", p.Premium, p.Coverage, p.Category)
		for _, f := range p.Features {
			fmt.Fprintf(&b, "   - %s\n", f)
		}
	}
	return b.String()
}

func renderComparison(cmp policy.Comparison) string {
	var b strings.Builder

	header := featureStyle.Render("")
	for _, name := range cmp.Policies {
		header += pad(headerStyle.Render(name), cellWidth)
	}
	b.WriteString(header + "\n")

	for _, row := range cmp.Rows {
		line := featureStyle.Render(string(row.Feature))
		for _, cell := range row.Cells {
			value := cell.Value
			if value == "" {
				value = "-"
			}
			line += pad(cellStyles[cell.Style].Render(value), cellWidth)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderFeatures() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Comparison features") + "\n\n")
	for _, f := range policy.Features() {
		spec, _ := policy.Spec(f)
		fmt.Fprintf(&b, "%s %s\n", featureStyle.Render(string(f)), subtleStyle.Render(ruleDescriptions[spec.Direction]))
	}
	return b.String()
}

// pad right-pads s to width visible columns, ignoring ANSI escapes.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
