// Package format renders resource fields for terminal output.
package format

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// TimeLayout is the layout used for absolute timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Time formats t in local time. The zero time renders as "-".
func Time(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimeLayout)
}

// Ago formats t relative to now, e.g. "3 hours ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// Truncate shortens s to at most n runes, ending with "...".
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

var (
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	greyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// StatusStyle returns the style for an experiment or workflow status.
func StatusStyle(status string) lipgloss.Style {
	switch strings.ToLower(status) {
	case "injecting", "running", "deleting":
		return primaryStyle
	case "finished", "succeed", "succeeded":
		return successStyle
	case "failed", "error":
		return errorStyle
	default:
		return greyStyle
	}
}

// Status renders a status label. An empty status renders as "unknown".
func Status(status string) string {
	if status == "" {
		status = "unknown"
	}
	return StatusStyle(status).Render(strings.ToLower(status))
}
