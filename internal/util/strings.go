// Package util provides shared string helpers for terminal output.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated cell text.
const Ellipsis = "…"

// TruncateANSI truncates a string to maxWidth visual columns, ending with an
// ellipsis if truncated. ANSI escape codes and wide characters are handled,
// so styled text can be passed in.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// FitCell truncates s to width columns and pads it with spaces to exactly
// width columns.
func FitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = TruncateANSI(singleLine(s), width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
