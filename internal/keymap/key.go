package keymap

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Code int

const (
	CodeRune Code = iota
	CodeEnter
	CodeTab
	CodeEsc
	CodePgUp
	CodePgDn
	CodeDelete
	CodeBackspace
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
)

type Mod int

const (
	ModNone Mod = iota
	ModAlt
	ModCtrl
)

// Key is a decoded keyboard event. Rune is only set for CodeRune.
type Key struct {
	Code Code
	Rune rune
	Mod  Mod
}

func RuneKey(r rune) Key { return Key{Code: CodeRune, Rune: r} }

func Ctrl(r rune) Key { return Key{Code: CodeRune, Rune: unicode.ToLower(r), Mod: ModCtrl} }

func Alt(r rune) Key { return Key{Code: CodeRune, Rune: r, Mod: ModAlt} }

func Named(c Code) Key { return Key{Code: c} }

// Plain reports an unmodified printable character.
func (k Key) Plain() bool { return k.Code == CodeRune && k.Mod == ModNone }

var codeNames = map[string]Code{
	"enter":     CodeEnter,
	"tab":       CodeTab,
	"esc":       CodeEsc,
	"pgup":      CodePgUp,
	"pgdn":      CodePgDn,
	"del":       CodeDelete,
	"backspace": CodeBackspace,
	"up":        CodeUp,
	"down":      CodeDown,
	"left":      CodeLeft,
	"right":     CodeRight,
}

// ParseKey parses a keyspec: a single character, a named key, A-<char> or C-<letter>.
func ParseKey(spec string) (Key, error) {
	if spec == "" {
		return Key{}, fmt.Errorf("empty keyspec")
	}
	if spec == "space" {
		return RuneKey(' '), nil
	}
	if c, ok := codeNames[spec]; ok {
		return Named(c), nil
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return RuneKey(r), nil
	}
	if rest, ok := strings.CutPrefix(spec, "A-"); ok {
		r, err := single(rest)
		if err != nil {
			return Key{}, fmt.Errorf("alt keyspec %q: %w", spec, err)
		}
		return Alt(r), nil
	}
	if rest, ok := strings.CutPrefix(spec, "C-"); ok {
		r, err := single(rest)
		if err != nil {
			return Key{}, fmt.Errorf("ctrl keyspec %q: %w", spec, err)
		}
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return Key{}, fmt.Errorf("ctrl keyspec %q: only letters can be combined with ctrl", spec)
		}
		return Ctrl(r), nil
	}
	return Key{}, fmt.Errorf("unknown keyspec %q", spec)
}

func single(s string) (rune, error) {
	if s == "space" {
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected one character after the modifier")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// String renders k back in keyspec syntax.
func (k Key) String() string {
	if k.Code != CodeRune {
		for name, c := range codeNames {
			if c == k.Code {
				return name
			}
		}
		return fmt.Sprintf("key(%d)", int(k.Code))
	}
	ch := string(k.Rune)
	if k.Rune == ' ' {
		ch = "space"
	}
	switch k.Mod {
	case ModAlt:
		return "A-" + ch
	case ModCtrl:
		return "C-" + ch
	default:
		return ch
	}
}
