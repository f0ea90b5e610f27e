package tui

import (
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// spawnDoneMsg reports a finished background process or clipboard write.
type spawnDoneMsg struct {
	what string
	err  error
}

func copyToClipboard(s string) tea.Cmd {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return func() tea.Msg {
		return spawnDoneMsg{what: "clipboard", err: clipboard.WriteAll(s)}
	}
}

func openURL(u string) tea.Cmd {
	u = strings.TrimSpace(u)
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", u)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", "", u)
		default:
			cmd = exec.Command("xdg-open", u)
		}
		return runDetached("browser", cmd)
	}
}

// spawn runs argv without a terminal; its output is discarded.
func spawn(argv []string) tea.Cmd {
	return func() tea.Msg {
		if len(argv) == 0 {
			return nil
		}
		return runDetached(argv[0], exec.Command(argv[0], argv[1:]...))
	}
}

func runDetached(what string, cmd *exec.Cmd) tea.Msg {
	cmd.Stdin = nil
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return spawnDoneMsg{what: what, err: err}
	}
	return spawnDoneMsg{what: what, err: cmd.Wait()}
}
