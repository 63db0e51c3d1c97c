package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KV prints an aligned "label value" line.
func KV(w io.Writer, label string, value string) {
	fmt.Fprintln(w, Cyan.Render(fmt.Sprintf("%-14s", label+":"))+" "+White.Render(value))
}

// Success prints a green check line.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Green.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Warn prints a yellow warning line.
func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Yellow.Render("!")+" "+fmt.Sprintf(format, args...))
}

// Table renders rows under a header with columns padded to the widest
// cell. Widths are measured without ANSI styling.
func Table(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style func(string) string) string {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			pad := 0
			if i < len(widths) {
				pad = widths[i] - lipgloss.Width(cell)
			}
			b.WriteString(style(cell))
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		return b.String()
	}

	fmt.Fprintln(w, line(header, func(s string) string { return Cyan.Render(s) }))
	for _, row := range rows {
		fmt.Fprintln(w, line(row, func(s string) string { return s }))
	}
}

// YesNo renders a boolean for humans.
func YesNo(b bool) string {
	if b {
		return Green.Render("yes")
	}
	return Dim.Render("no")
}
