package tui

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"void-cli/internal/model"
)

const defaultEditor = "vim"

type externalEditorDoneMsg struct {
	node model.NodeID
	path string
	err  error
}

// editorArgv splits the editor setting into argv, falling back to vim.
func editorArgv(editor string) []string {
	args := splitShellWords(strings.TrimSpace(editor))
	if len(args) == 0 {
		return []string{defaultEditor}
	}
	return args
}

// openExternalEditor writes the node's free text to a temp file and hands the terminal
// to the editor until it exits.
func (m *appModel) openExternalEditor(node model.NodeID, text string) tea.Cmd {
	f, err := os.CreateTemp("", fmt.Sprintf("void-%d-*.txt", os.Getpid()))
	if err != nil {
		log.Printf("editor: %v", err)
		return nil
	}
	path := f.Name()
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		log.Printf("editor: %v", err)
		return nil
	}
	_ = f.Close()

	args := editorArgv(m.editor)
	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{node: node, path: path, err: err}
	})
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	defer func() { _ = os.Remove(msg.path) }()

	if msg.err != nil {
		log.Printf("editor failed: %v", msg.err)
		return
	}
	b, err := os.ReadFile(msg.path)
	if err != nil {
		log.Printf("editor read failed: %v", err)
		return
	}
	m.screen.SetFreeText(msg.node, strings.TrimRight(string(b), "\n"))
	log.Printf("free text updated from %s", editorArgv(m.editor)[0])
}
