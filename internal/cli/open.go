package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"void-cli/internal/geo"
	"void-cli/internal/keymap"
	"void-cli/internal/logbuf"
	"void-cli/internal/model"
	"void-cli/internal/screen"
	"void-cli/internal/store"
	"void-cli/internal/tui"
)

var errNoTTY = errors.New("void needs an interactive terminal (use `void export` for scripts)")

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open [PATH]",
		Short: "Open a map in the editor (default: ~/.void.db)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, app, firstArg(args))
		},
	}
}

func runOpen(cmd *cobra.Command, app *App, pathArg string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return writeErr(cmd, errNoTTY)
	}
	path, err := resolveDBPath(pathArg)
	if err != nil {
		return writeErr(cmd, err)
	}
	keys, err := keymap.Load(app.KeyFile)
	if err != nil {
		return writeErr(cmd, err)
	}

	lock, err := store.AcquireLock(path)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = lock.Release() }()

	closer, err := logbuf.Setup(app.LogFile)
	if err != nil {
		log.Printf("logfile: %v", err)
	}
	defer func() { _ = closer.Close() }()

	if err := store.Backup(path); err != nil {
		log.Printf("backup: %v", err)
	}

	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	s, err := screen.Open(screen.Options{
		Path:          path,
		Glyphs:        keys.Glyphs,
		AutosaveEvery: app.AutosaveEvery,
		Width:         w,
		Height:        h,
		Location:      locate(cmd.Context()),
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	log.Printf("opened %s", path)

	runErr := tui.Run(s, keys, tui.Options{Editor: app.Editor})
	if err := s.Save(); err != nil {
		return writeErr(cmd, err)
	}
	if runErr != nil {
		return writeErr(cmd, runErr)
	}
	return nil
}

// locate asks the LOCATION_QUERY endpoint where we are. A failed lookup is logged and
// stamps the origin so new nodes still carry a location.
func locate(ctx context.Context) *model.GPS {
	endpoint, ok := geo.Endpoint(os.Getenv("LOCATION_QUERY"))
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	loc, err := geo.NewClient(endpoint).Locate(ctx)
	if err != nil {
		log.Printf("location: %v", err)
		return &model.GPS{}
	}
	return &loc
}
