package tui

import (
	"fmt"
	"strings"

	"void-cli/internal/action"
	"void-cli/internal/docs"
	"void-cli/internal/keymap"
)

// helpMarkdown is the help topic followed by the bindings that are actually in effect.
func helpMarkdown(keys *keymap.Config) string {
	var b strings.Builder
	if body, ok := docs.Get("help"); ok {
		b.WriteString(strings.TrimSpace(body))
		b.WriteString("\n\n")
	}
	b.WriteString("## Key bindings\n\n")
	if keys.Modal {
		b.WriteString("Modal: plain characters run bindings while nothing is selected.\n\n")
	}
	b.WriteString("| action | keys |\n|---|---|\n")
	for _, name := range action.Names() {
		kind, _ := action.Lookup(name)
		bound := keys.KeysFor(kind)
		if len(bound) == 0 {
			continue
		}
		for i, k := range bound {
			bound[i] = "`" + strings.ReplaceAll(k, "|", `\|`) + "`"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", name, strings.Join(bound, ", "))
	}
	return b.String()
}
