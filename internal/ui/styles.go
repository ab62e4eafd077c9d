package ui

import (
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/task"
)

var colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Low     lipgloss.Color
	Medium  lipgloss.Color
	High    lipgloss.Color
	Tag     lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"),
	Muted:   lipgloss.Color("#636E72"),
	Error:   lipgloss.Color("#D63031"),
	Low:     lipgloss.Color("#4CAF50"),
	Medium:  lipgloss.Color("#FFC107"),
	High:    lipgloss.Color("#F44336"),
	Tag:     lipgloss.Color("#A29BFE"),
}

var styles = struct {
	Header    lipgloss.Style
	Criteria  lipgloss.Style
	Selected  lipgloss.Style
	Completed lipgloss.Style
	Tag       lipgloss.Style
	Due       lipgloss.Style
	Panel     lipgloss.Style
	Active    lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}{
	Header:    lipgloss.NewStyle().Bold(true).Foreground(colors.Primary),
	Criteria:  lipgloss.NewStyle().Foreground(colors.Muted),
	Selected:  lipgloss.NewStyle().Bold(true),
	Completed: lipgloss.NewStyle().Strikethrough(true).Foreground(colors.Muted),
	Tag:       lipgloss.NewStyle().Foreground(colors.Tag),
	Due:       lipgloss.NewStyle().Foreground(colors.Muted),
	Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colors.Primary).Padding(0, 1),
	Active:    lipgloss.NewStyle().Bold(true).Foreground(colors.Primary),
	Status:    lipgloss.NewStyle().Foreground(colors.Muted),
	Error:     lipgloss.NewStyle().Foreground(colors.Error),
	Help:      lipgloss.NewStyle().Foreground(colors.Muted),
}

func priorityColor(p task.Priority) lipgloss.Color {
	switch p {
	case task.PriorityLow:
		return colors.Low
	case task.PriorityHigh:
		return colors.High
	default:
		return colors.Medium
	}
}

func priorityBadge(p task.Priority) string {
	return lipgloss.NewStyle().Foreground(priorityColor(p)).Render("▌" + string(p))
}
