// Package ui holds the lipgloss styles and small print helpers the CLI
// shares.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
// lipgloss v1.x auto-detects TrueColor but doesn't apply it without
// an explicit SetColorProfile call on some terminals. NO_COLOR turns
// styling off.
var Renderer = newRenderer(os.Stdout)

func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}

// Predefined styles for consistent CLI output.
var (
	Green  = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan   = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red    = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Yellow = Renderer.NewStyle().Foreground(lipgloss.Color("11"))
	White  = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim    = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

// Swatch renders a block in an "r,g,b" colour, or nothing for an
// unparsable value.
func Swatch(rgb string) string {
	parts := strings.Split(rgb, ",")
	if len(parts) != 3 {
		return ""
	}
	var c [3]int
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &c[i]); err != nil {
			return ""
		}
	}
	hex := fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	return Renderer.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
