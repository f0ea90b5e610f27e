package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"void-cli/internal/docs"
	"void-cli/internal/tui"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show the built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, topic := range docs.Topics() {
					fmt.Fprintf(tw, "%s\t%s\n", topic, docs.Summary(topic))
				}
				return tw.Flush()
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `void docs` to list topics)", topic))
			}

			width, isTTY := stdoutWidth(cmd)
			if raw || !isTTY {
				_, err := fmt.Fprint(out, body)
				return err
			}
			_, err := fmt.Fprintln(out, tui.RenderMarkdown(body, width))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")

	return cmd
}

// stdoutWidth reports the terminal width when the command writes to a terminal.
func stdoutWidth(cmd *cobra.Command) (int, bool) {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 80, true
	}
	return min(w, 120), true
}
