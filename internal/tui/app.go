package tui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"void-cli/internal/action"
	"void-cli/internal/keymap"
	"void-cli/internal/screen"
)

type Options struct {
	// Editor is the command line used for free text; empty means vim.
	Editor string
	// Renderer defaults to stdout with the environment's color profile.
	Renderer *lipgloss.Renderer
}

type helpKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Close key.Binding
}

var helpKeys = helpKeyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "down")),
	Close: key.NewBinding(key.WithKeys("esc", "q", "enter"), key.WithHelp("esc/q", "close")),
}

func (k helpKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Up, k.Down, k.Close} }

func (k helpKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type appModel struct {
	screen *screen.Screen
	keys   *keymap.Config
	editor string

	r       *lipgloss.Renderer
	painter *painter
	width   int
	height  int

	prompt     textinput.Model
	promptKind screen.PromptKind
	prompting  bool

	help        viewport.Model
	helpBar     help.Model
	showingHelp bool
}

func newAppModel(s *screen.Screen, keys *keymap.Config, opts Options) *appModel {
	r := opts.Renderer
	if r == nil {
		r = defaultRenderer()
	}
	if keys == nil {
		keys = keymap.Default()
	}
	in := textinput.New()
	in.PromptStyle = promptStyle(r)
	in.CharLimit = 512

	bar := help.New()
	bar.Styles.ShortKey = helpBarStyle(r).Bold(true)
	bar.Styles.ShortDesc = helpBarStyle(r)
	bar.Styles.ShortSeparator = helpBarStyle(r)

	w, h := s.Dims()
	return &appModel{
		screen:  s,
		keys:    keys,
		editor:  opts.Editor,
		r:       r,
		painter: newPainter(r),
		width:   w,
		height:  h,
		prompt:  in,
		helpBar: bar,
	}
}

func (m *appModel) Init() tea.Cmd { return nil }

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.SetDims(msg.Width, msg.Height)
		m.screen.Draw()
		if m.showingHelp {
			m.openHelp()
		}
		return m, nil

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		m.screen.Draw()
		return m, nil

	case spawnDoneMsg:
		if msg.err != nil {
			log.Printf("%s: %v", msg.what, msg.err)
			m.screen.Draw()
		}
		return m, nil

	case tea.MouseMsg:
		if m.showingHelp || m.prompting {
			return m, nil
		}
		if msg.Action == tea.MouseActionMotion {
			if msg.Button == tea.MouseButtonLeft && m.screen.Dragging() {
				m.screen.DragTo(msg.X+1, msg.Y+1)
				m.screen.Draw()
			}
			return m, nil
		}
		a, ok := mouseAction(msg)
		if !ok {
			return m, nil
		}
		return m, m.step(a)

	case tea.KeyMsg:
		if m.showingHelp {
			return m, m.updateHelp(msg)
		}
		if m.prompting {
			return m, m.updatePrompt(msg)
		}
		k, ok := keyFromMsg(msg)
		if !ok {
			return m, nil
		}
		a, ok := m.keys.Map(k, m.screen.WantsText())
		if !ok {
			return m, nil
		}
		return m, m.step(a)
	}
	return m, nil
}

// step dispatches one action and turns the queued effects into commands.
func (m *appModel) step(a action.Action) tea.Cmd {
	if !m.screen.Step(a) {
		return tea.Quit
	}
	return m.runEffects()
}

func (m *appModel) runEffects() tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.screen.TakeEffects() {
		switch e := e.(type) {
		case screen.EditFreeText:
			cmds = append(cmds, m.openExternalEditor(e.Node, e.Text))
		case screen.OpenURL:
			cmds = append(cmds, openURL(e.URL))
		case screen.Spawn:
			cmds = append(cmds, spawn(e.Argv))
		case screen.CopyText:
			cmds = append(cmds, copyToClipboard(e.Text))
		case screen.ShowHelp:
			m.openHelp()
		case screen.Prompt:
			cmds = append(cmds, m.openPrompt(e.Kind))
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) openPrompt(kind screen.PromptKind) tea.Cmd {
	m.prompting = true
	m.promptKind = kind
	m.prompt.Reset()
	if kind == screen.PromptSearch {
		m.prompt.Prompt = "/"
	} else {
		m.prompt.Prompt = ":"
	}
	return m.prompt.Focus()
}

func (m *appModel) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
}

func (m *appModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		line := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if m.promptKind == screen.PromptSearch {
			m.screen.Search(line)
			return nil
		}
		if !m.screen.RunCommand(line) {
			return tea.Quit
		}
		return m.runEffects()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *appModel) openHelp() {
	m.showingHelp = true
	m.help = viewport.New(max(m.width, 20), max(m.height-1, 1))
	m.help.SetContent(RenderMarkdown(helpMarkdown(m.keys), m.width))
}

func (m *appModel) updateHelp(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, helpKeys.Close) {
		m.showingHelp = false
		m.screen.Draw()
		return nil
	}
	switch {
	case key.Matches(msg, helpKeys.Up):
		m.help.LineUp(1)
	case key.Matches(msg, helpKeys.Down):
		m.help.LineDown(1)
	}
	return nil
}

func (m *appModel) View() string {
	if m.showingHelp {
		m.helpBar.Width = m.width
		return m.help.View() + "\n" + m.helpBar.View(helpKeys)
	}
	rows := m.painter.paint(m.screen.Frame())
	if m.prompting && len(rows) > 0 {
		rows[len(rows)-1] = renderInputLine(m.r, m.width, m.prompt.View())
	}
	return strings.Join(rows, "\n")
}
