package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine pads the prompt view to the full width on the input background and
// never lets it wrap.
func renderInputLine(r *lipgloss.Renderer, width int, inputView string) string {
	width = max(width, 10)
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := r.PlaceHorizontal(
		width,
		lipgloss.Left,
		inputView,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > width {
		// Terminate styling so a cut sequence cannot bleed into the next row.
		line = xansi.Truncate(line, width, "") + "\x1b[0m"
	}
	return line
}
