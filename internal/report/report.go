// Package report renders run summaries for the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/growthsim/internal/growth"
	"github.com/san-kum/growthsim/internal/sweep"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)
)

// Summary is everything Render shows about one run.
type Summary struct {
	ID             string
	Name           string
	Params         growth.Params
	Path           growth.Path
	SteadyState    float64
	SteadyStateErr error
	Metrics        map[string]float64
}

func Render(s Summary) string {
	var b strings.Builder

	title := s.Name
	if s.ID != "" {
		title = fmt.Sprintf("%s (%s)", s.Name, s.ID)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	p := s.Params
	rows := [][2]string{
		{"savings", formatFloat(p.Savings)},
		{"population growth", formatFloat(p.PopulationGrowth)},
		{"depreciation", formatFloat(p.Depreciation)},
		{"capital share", formatFloat(p.CapitalShare)},
		{"labor", formatFloat(p.Labor)},
		{"initial capital", formatFloat(p.InitialCapital)},
		{"periods", fmt.Sprintf("%d", p.Periods)},
	}
	writeRows(&b, rows)
	b.WriteString("\n")

	if s.SteadyStateErr != nil {
		writeRow(&b, "steady state", errorStyle.Render(s.SteadyStateErr.Error()))
	} else {
		writeRow(&b, "steady state", valueStyle.Render(formatFloat(s.SteadyState)))
	}
	if len(s.Path) > 0 {
		writeRow(&b, "final capital", valueStyle.Render(formatFloat(s.Path.Final())))
	}

	if len(s.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(s.Metrics))
		for name := range s.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			writeRow(&b, name, formatFloat(s.Metrics[name]))
		}
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Table renders one line per sweep outcome, varying field.
func Table(field string, outcomes []sweep.Outcome) string {
	var b strings.Builder

	header := fmt.Sprintf("%-18s  %14s  %14s  %10s  %9s", field, "steady_state", "final", "final_gap", "half_life")
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(header)))
	b.WriteString("\n")

	for _, o := range outcomes {
		v := o.Params.Fields()[field]
		if o.Err != nil {
			b.WriteString(fmt.Sprintf("%-18s  %s\n", formatFloat(v), errorStyle.Render(o.Err.Error())))
			continue
		}

		kstar := "undefined"
		if o.SteadyStateErr == nil {
			kstar = formatFloat(o.SteadyState)
		}
		gap, halfLife := "-", "-"
		if g, ok := o.Metrics["final_gap"]; ok {
			gap = fmt.Sprintf("%.4f", g)
		}
		if h, ok := o.Metrics["half_life"]; ok {
			halfLife = fmt.Sprintf("%.0f", h)
		}
		b.WriteString(fmt.Sprintf("%-18s  %14s  %14s  %10s  %9s\n",
			formatFloat(v), kstar, formatFloat(o.Path.Final()), gap, halfLife))
	}

	return b.String()
}

func writeRows(b *strings.Builder, rows [][2]string) {
	for _, r := range rows {
		writeRow(b, r[0], r[1])
	}
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
