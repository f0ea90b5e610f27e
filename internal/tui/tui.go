package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"void-cli/internal/keymap"
	"void-cli/internal/screen"
)

// Run takes over the terminal until the user quits. The caller saves afterwards.
func Run(s *screen.Screen, keys *keymap.Config, opts Options) error {
	m := newAppModel(s, keys, opts)
	_ = markdownStyle()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
