package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"void-cli/internal/cli"
)

// rewriteOpenArgs turns `void [flags] PATH` into `void [flags] open PATH` so a database
// path can never be mistaken for a subcommand. Cobra treats the first non-flag token as
// a subcommand, so the rewrite happens before parsing.
func rewriteOpenArgs(argv []string, subcommands map[string]bool) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--keyfile":        true,
		"--logfile":        true,
		"--editor":         true,
		"--autosave-every": true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "open")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				return insertAt(i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if subcommands[a] {
			return argv
		}
		return insertAt(i)
	}
	return argv
}

func commandNames(root *cobra.Command) map[string]bool {
	names := map[string]bool{"help": true, "completion": true}
	for _, c := range root.Commands() {
		names[c.Name()] = true
		for _, alias := range c.Aliases {
			names[alias] = true
		}
	}
	return names
}

func main() {
	cmd := cli.NewRootCmd()
	argv := rewriteOpenArgs(os.Args, commandNames(cmd))
	cmd.SetArgs(argv[1:])
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
