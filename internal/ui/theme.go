package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ascend/internal/engine"
)

// Ascend theme (CLI + TUI).

const (
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconUndo    = "↩️"
	IconTrophy  = "🏆"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
	IconDecay   = "🍂"
	IconGear    = "⚙️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp   = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeLevelDown = lipgloss.NewStyle().Bold(true).Foreground(cWarn).Render("LEVEL DOWN")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatIcon(s engine.Stat) string {
	switch s {
	case engine.StatStrength:
		return "💪"
	case engine.StatAgility:
		return "🤸"
	case engine.StatEndurance:
		return "🫀"
	case engine.StatIntelligence:
		return "🧠"
	case engine.StatFocus:
		return "🧘"
	case engine.StatCharisma:
		return "🗣️"
	default:
		return "•"
	}
}

func CategoryIcon(c engine.Category) string {
	switch c {
	case engine.CategoryWorkout:
		return "🏋️"
	case engine.CategoryStudy:
		return "📚"
	default:
		return "🌱"
	}
}

// Bar renders value/total as a fixed-width bar.
func Bar(value, total float64, width int) string {
	if width <= 3 {
		width = 3
	}
	if total <= 0 || math.IsNaN(value) {
		value, total = 0, 1
	}
	ratio := math.Max(0, math.Min(1, value/total))
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StatBar renders one stat scaled to ceiling, e.g. "💪 STR [####------] 4.21".
func StatBar(s engine.Stat, value, ceiling float64, width int) string {
	return fmt.Sprintf("%s %s %s %s", StatIcon(s), Key.Render(s.Abbrev()), Bar(value, ceiling, width), FormatStat(value))
}

func FormatStat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatDeltas renders a receipt's stat part, e.g. "+0.06 STR +0.04 END".
func FormatDeltas(d engine.Deltas, sign string) string {
	parts := make([]string, 0, len(d))
	for _, s := range d.Stats() {
		parts = append(parts, fmt.Sprintf("%s%s %s", sign, trimFloat(d[s]), s.Abbrev()))
	}
	if len(parts) == 0 {
		return Muted.Render("no stat change")
	}
	return strings.Join(parts, " ")
}

func FormatExp(v float64) string {
	return trimFloat(v) + " EXP"
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
