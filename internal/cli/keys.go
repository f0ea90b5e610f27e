package cli

import (
	"github.com/spf13/cobra"

	"void-cli/internal/keymap"
)

func newKeysCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the effective key map in key-file syntax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := keymap.Load(app.KeyFile)
			if err != nil {
				return writeErr(cmd, err)
			}
			return keys.Write(cmd.OutOrStdout())
		},
	}
}
