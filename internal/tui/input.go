package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"void-cli/internal/action"
	"void-cli/internal/keymap"
)

// keyFromMsg converts a bubbletea key event into the key-map vocabulary.
func keyFromMsg(msg tea.KeyMsg) (keymap.Key, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return keymap.Key{}, false
		}
		if msg.Alt {
			return keymap.Alt(msg.Runes[0]), true
		}
		return keymap.RuneKey(msg.Runes[0]), true
	case tea.KeySpace:
		if msg.Alt {
			return keymap.Alt(' '), true
		}
		return keymap.RuneKey(' '), true
	// Tab, Enter, Esc and Backspace share codes with Ctrl-I, Ctrl-M, Ctrl-[ and Ctrl-H
	// and must be matched before the Ctrl range.
	case tea.KeyTab:
		return keymap.Named(keymap.CodeTab), true
	case tea.KeyEnter:
		return keymap.Named(keymap.CodeEnter), true
	case tea.KeyEsc:
		return keymap.Named(keymap.CodeEsc), true
	case tea.KeyBackspace, tea.KeyCtrlH:
		return keymap.Named(keymap.CodeBackspace), true
	case tea.KeyDelete:
		return keymap.Named(keymap.CodeDelete), true
	case tea.KeyPgUp:
		return keymap.Named(keymap.CodePgUp), true
	case tea.KeyPgDown:
		return keymap.Named(keymap.CodePgDn), true
	case tea.KeyUp:
		return keymap.Named(keymap.CodeUp), true
	case tea.KeyDown:
		return keymap.Named(keymap.CodeDown), true
	case tea.KeyLeft:
		return keymap.Named(keymap.CodeLeft), true
	case tea.KeyRight:
		return keymap.Named(keymap.CodeRight), true
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		return keymap.Ctrl(rune('a' + int(msg.Type-tea.KeyCtrlA))), true
	}
	return keymap.Key{}, false
}

// mouseAction converts a mouse event into an action. bubbletea cells are 0-based;
// the screen is 1-based like the terminal. Motion is reported separately.
func mouseAction(msg tea.MouseMsg) (action.Action, bool) {
	x, y := msg.X+1, msg.Y+1
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return action.Click(x, y), true
		case tea.MouseButtonRight:
			return action.RightClickAt(x, y), true
		case tea.MouseButtonWheelUp:
			return action.Of(action.ScrollUp), true
		case tea.MouseButtonWheelDown:
			return action.Of(action.ScrollDown), true
		}
	case tea.MouseActionRelease:
		return action.ReleaseAt(x, y), true
	}
	return action.Action{}, false
}
