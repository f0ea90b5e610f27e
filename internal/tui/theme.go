package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorAccent  lipgloss.TerminalColor = ac("27", "62")
	colorMuted   lipgloss.TerminalColor = ac("240", "243")
	colorInputBg lipgloss.TerminalColor = ac("254", "234")
)

// defaultRenderer writes to stdout and honours NO_COLOR / CLICOLOR_FORCE.
func defaultRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
	return r
}

func promptStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(colorAccent).Bold(true)
}

func helpBarStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(colorMuted)
}
