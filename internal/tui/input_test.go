package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"void-cli/internal/action"
	"void-cli/internal/keymap"
)

func TestKeyFromMsg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want keymap.Key
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, keymap.RuneKey('x')},
		{"unicode rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'é'}}, keymap.RuneKey('é')},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}, Alt: true}, keymap.Alt('t')},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, keymap.RuneKey(' ')},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, keymap.Named(keymap.CodeTab)},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, keymap.Named(keymap.CodeEnter)},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, keymap.Named(keymap.CodeEsc)},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, keymap.Named(keymap.CodeBackspace)},
		{"ctrl-h is backspace", tea.KeyMsg{Type: tea.KeyCtrlH}, keymap.Named(keymap.CodeBackspace)},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, keymap.Named(keymap.CodeDelete)},
		{"pgdown", tea.KeyMsg{Type: tea.KeyPgDown}, keymap.Named(keymap.CodePgDn)},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, keymap.Named(keymap.CodeLeft)},
		{"ctrl-a", tea.KeyMsg{Type: tea.KeyCtrlA}, keymap.Ctrl('a')},
		{"ctrl-z", tea.KeyMsg{Type: tea.KeyCtrlZ}, keymap.Ctrl('z')},
	}
	for _, tt := range tests {
		got, ok := keyFromMsg(tt.msg)
		if !ok {
			t.Fatalf("%s: expected a key", tt.name)
		}
		if got != tt.want {
			t.Fatalf("%s: expected %v; got %v", tt.name, tt.want, got)
		}
	}

	if _, ok := keyFromMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("paste")}); ok {
		t.Fatalf("expected multi-rune input to be ignored")
	}
	if _, ok := keyFromMsg(tea.KeyMsg{Type: tea.KeyF5}); ok {
		t.Fatalf("expected function keys to be ignored")
	}
}

func TestMouseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  tea.MouseMsg
		want action.Action
		ok   bool
	}{
		{
			"left press is 1-based",
			tea.MouseMsg{X: 0, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
			action.Click(1, 3), true,
		},
		{
			"right press",
			tea.MouseMsg{X: 9, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight},
			action.RightClickAt(10, 5), true,
		},
		{
			"release",
			tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
			action.ReleaseAt(4, 4), true,
		},
		{
			"wheel down scrolls",
			tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown},
			action.Of(action.ScrollDown), true,
		},
		{
			"motion is not an action",
			tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
			action.Action{}, false,
		},
	}
	for _, tt := range tests {
		got, ok := mouseAction(tt.msg)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("%s: expected %v/%v; got %v/%v", tt.name, tt.want, tt.ok, got, ok)
		}
	}
}
