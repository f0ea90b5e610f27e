// Package keymap maps keyboard events to actions and reads the key-map file.
package keymap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"void-cli/internal/action"
)

// Glyphs are the single-cell markers drawn in front of (or after) node text.
type Glyphs struct {
	Stricken     string
	Collapsed    string
	HideStricken string
	FreeText     string
}

func DefaultGlyphs() Glyphs {
	return Glyphs{Stricken: "☠", Collapsed: "⊞", HideStricken: "⚔", FreeText: "✎"}
}

// Config is an immutable-after-load key map.
type Config struct {
	// Modal enables single-character bindings while nothing is selected.
	Modal  bool
	Glyphs Glyphs

	bindings map[Key]action.Kind
}

// Binding pairs a key with the action it triggers.
type Binding struct {
	Key    Key
	Action action.Kind
}

var defaultBindings = []Binding{
	{Named(CodeEsc), action.UnselectRet},
	{Named(CodeEnter), action.CreateSibling},
	{Named(CodeTab), action.CreateChild},
	{Named(CodeDelete), action.DeleteSelected},
	{Named(CodeBackspace), action.EraseChar},
	{Named(CodeUp), action.SelectUp},
	{Named(CodeDown), action.SelectDown},
	{Named(CodeLeft), action.SelectLeft},
	{Named(CodeRight), action.SelectRight},
	{Named(CodePgUp), action.ScrollUp},
	{Named(CodePgDn), action.ScrollDown},
	{Ctrl('n'), action.CreateFreeNode},
	{Ctrl('e'), action.ExecSelected},
	{Ctrl('w'), action.DrillDown},
	{Ctrl('q'), action.PopUp},
	{Ctrl('f'), action.PrefixJump},
	{Ctrl('d'), action.ToggleCompleted},
	{Ctrl('v'), action.ToggleHideCompleted},
	{Ctrl('a'), action.Arrow},
	{Ctrl('r'), action.AutoArrange},
	{Ctrl('t'), action.ToggleCollapsed},
	{Ctrl('c'), action.Quit},
	{Ctrl('s'), action.Save},
	{Ctrl('l'), action.ToggleShowLogs},
	{Ctrl('p'), action.EnterCmd},
	{Ctrl('y'), action.YankPasteNode},
	{Alt('t'), action.FindTask},
	{Alt('k'), action.RaiseSelected},
	{Alt('j'), action.LowerSelected},
	{Alt('s'), action.Search},
	{Alt('h'), action.Help},
	{Alt('p'), action.SelectParent},
	{Alt('n'), action.SelectNextSibling},
	{Alt('b'), action.SelectPrevSibling},
}

// modalBindings are added on top of the defaults when the map is modal.
var modalBindings = []Binding{
	{RuneKey('h'), action.SelectLeft},
	{RuneKey('j'), action.SelectDown},
	{RuneKey('k'), action.SelectUp},
	{RuneKey('l'), action.SelectRight},
	{RuneKey('f'), action.PrefixJump},
	{RuneKey('/'), action.Search},
	{RuneKey(':'), action.EnterCmd},
	{RuneKey('?'), action.Help},
}

// Default returns the built-in, non-modal key map.
func Default() *Config {
	c := &Config{Glyphs: DefaultGlyphs(), bindings: map[Key]action.Kind{}}
	for _, b := range defaultBindings {
		c.bindings[b.Key] = b.Action
	}
	return c
}

// ParseError is a fatal key-map problem on a specific line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("keymap line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Parse reads key-map directives. Defaults are applied unless the file says no_defaults.
func Parse(r io.Reader) (*Config, error) {
	c := &Config{Glyphs: DefaultGlyphs(), bindings: map[Key]action.Kind{}}
	noDefaults := false
	var user []Binding

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fail := func(msg string) error { return &ParseError{Line: lineNo, Text: raw, Msg: msg} }

		switch line {
		case "modal":
			c.Modal = true
			continue
		case "no_defaults":
			noDefaults = true
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fail("expected <name>: <value>")
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fail("missing value")
		}

		switch name {
		case "stricken", "collapsed", "hide_stricken", "free_text":
			if utf8.RuneCountInString(value) != 1 {
				return nil, fail("a glyph must be exactly one character")
			}
			switch name {
			case "stricken":
				c.Glyphs.Stricken = value
			case "collapsed":
				c.Glyphs.Collapsed = value
			case "hide_stricken":
				c.Glyphs.HideStricken = value
			case "free_text":
				c.Glyphs.FreeText = value
			}
			continue
		}

		kind, ok := action.Lookup(name)
		if !ok {
			return nil, fail("unknown action " + name)
		}
		key, err := ParseKey(value)
		if err != nil {
			return nil, fail(err.Error())
		}
		user = append(user, Binding{Key: key, Action: kind})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !noDefaults {
		for _, b := range defaultBindings {
			c.bindings[b.Key] = b.Action
		}
		if c.Modal {
			for _, b := range modalBindings {
				c.bindings[b.Key] = b.Action
			}
		}
	}
	for _, b := range user {
		c.bindings[b.Key] = b.Action
	}
	return c, nil
}

// Load reads the key-map file at path; an empty path yields the defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Lookup returns the action bound to k, ignoring typing rules.
func (c *Config) Lookup(k Key) (action.Kind, bool) {
	a, ok := c.bindings[k]
	return a, ok
}

// Map turns a key into an action. Unmodified characters type into the selected node;
// in modal mode they may trigger bindings while nothing is selected.
func (c *Config) Map(k Key, selected bool) (action.Action, bool) {
	if k.Plain() {
		if c.Modal && !selected {
			if a, ok := c.bindings[k]; ok {
				return action.Of(a), true
			}
		}
		return action.Typed(k.Rune), true
	}
	a, ok := c.bindings[k]
	if !ok {
		return action.Action{}, false
	}
	return action.Of(a), true
}

// Bindings lists the map sorted by action name, then key.
func (c *Config) Bindings() []Binding {
	out := make([]Binding, 0, len(c.bindings))
	for k, a := range c.bindings {
		out = append(out, Binding{Key: k, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action.String() < out[j].Action.String()
		}
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// KeysFor returns the keys bound to a, in keyspec syntax.
func (c *Config) KeysFor(a action.Kind) []string {
	var keys []string
	for _, b := range c.Bindings() {
		if b.Action == a {
			keys = append(keys, b.Key.String())
		}
	}
	return keys
}

// Write renders the map in key-file syntax; parsing the output yields the same map.
func (c *Config) Write(w io.Writer) error {
	var b strings.Builder
	b.WriteString("no_defaults\n")
	if c.Modal {
		b.WriteString("modal\n")
	}
	fmt.Fprintf(&b, "stricken: %s\ncollapsed: %s\nhide_stricken: %s\nfree_text: %s\n",
		c.Glyphs.Stricken, c.Glyphs.Collapsed, c.Glyphs.HideStricken, c.Glyphs.FreeText)
	for _, bd := range c.Bindings() {
		fmt.Fprintf(&b, "%s: %s\n", bd.Action, bd.Key)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
