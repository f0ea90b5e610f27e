package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"void-cli/internal/export"
	"void-cli/internal/format"
	"void-cli/internal/screen"
	"void-cli/internal/store"
)

type exportOptions struct {
	format string
	output string
	pretty bool
	width  int
	height int
}

func newExportCmd(app *App) *cobra.Command {
	opt := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [PATH]",
		Short: "Write a map as md, json, yaml, edn, sqlite or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveDBPath(firstArg(args))
			if err != nil {
				return writeErr(cmd, err)
			}
			snap, err := store.Load(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			if snap == nil {
				snap = screen.New(screen.Options{}).Snapshot()
			}
			if err := runExport(cmd, snap, opt); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opt.format, "format", envOr("VOID_EXPORT_FORMAT", "md"), "Output format (md|json|yaml|edn|sqlite|svg)")
	cmd.Flags().StringVarP(&opt.output, "output", "o", "", "Output file (default: stdout; required for sqlite)")
	cmd.Flags().BoolVar(&opt.pretty, "pretty", false, "Pretty-print json and edn")
	cmd.Flags().IntVar(&opt.width, "width", 100, "Canvas width in cells for svg")
	cmd.Flags().IntVar(&opt.height, "height", 40, "Canvas height in cells for svg")

	return cmd
}

func runExport(cmd *cobra.Command, snap *store.Snapshot, opt exportOptions) error {
	f := strings.ToLower(strings.TrimSpace(opt.format))
	if f == "sqlite" {
		if opt.output == "" || opt.output == "-" {
			return errors.New("sqlite export needs --output")
		}
		return export.WriteSQLite(cmd.Context(), opt.output, snap)
	}

	return withOutput(cmd, opt.output, func(w io.Writer) error {
		switch f {
		case "md", "markdown":
			return export.WriteMarkdown(w, snap)
		case "svg":
			if opt.width < 1 || opt.height < 3 {
				return fmt.Errorf("svg export needs --width >= 1 and --height >= 3")
			}
			export.WriteSVG(w, export.RenderFrame(snap, opt.width, opt.height))
			return nil
		default:
			return format.Write(w, export.BuildDocument(snap), f, opt.pretty)
		}
	})
}

// withOutput runs fn against stdout or a freshly created file.
func withOutput(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fh)
	if err := fn(bw); err != nil {
		_ = fh.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
