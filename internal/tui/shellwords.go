package tui

import "unicode"

// splitShellWords splits an editor setting like `code --wait` into argv. Single and
// double quotes group words; a backslash escapes the next rune outside single quotes.
func splitShellWords(s string) []string {
	var (
		out      []string
		cur      []rune
		inWord   bool
		quote    rune
		escaping bool
	)
	for _, r := range s {
		switch {
		case escaping:
			cur = append(cur, r)
			escaping = false
		case r == '\\' && quote != '\'':
			escaping, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur = append(cur, r)
			}
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				out = append(out, string(cur))
				cur, inWord = cur[:0], false
			}
		default:
			cur = append(cur, r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, string(cur))
	}
	return out
}
