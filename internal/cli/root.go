package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const defaultDBName = ".void.db"

type App struct {
	KeyFile       string
	LogFile       string
	Editor        string
	AutosaveEvery int
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "void [PATH]",
		Short:        "A mind map and outliner for the terminal",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Open ~/.void.db
  void

  # Open a specific map
  void ~/notes/work.db

  # Dump a map as an outline
  void export ~/notes/work.db --format md
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, app, firstArg(args))
		},
	}

	cmd.PersistentFlags().StringVar(&app.KeyFile, "keyfile", envOr("KEYFILE", ""), "Key-map file (see `void docs keys`)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "logfile", envOr("LOGFILE", ""), "Append log lines to this file")
	cmd.PersistentFlags().StringVar(&app.Editor, "editor", envOr("EDITOR", defaultEditor), "Editor for free text")
	cmd.PersistentFlags().IntVar(&app.AutosaveEvery, "autosave-every", envInt("VOID_AUTOSAVE_EVERY", 0), "Save after every N actions (0 = only on exit)")

	cmd.AddCommand(newOpenCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newKeysCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

const defaultEditor = "vim"

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// resolveDBPath returns path, or ~/.void.db when it is empty.
func resolveDBPath(path string) (string, error) {
	if p := strings.TrimSpace(path); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve default database: %w", err)
	}
	return filepath.Join(home, defaultDBName), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return d
	}
	return n
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
