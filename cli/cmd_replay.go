// cmd_replay.go - decode a recorded byte stream and print the result
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rodjjo/diffusion-expert-sub000/internal/vtlog"
)

type replayOptions struct {
	plain      bool
	stats      bool
	noColor    bool
	ascii      bool
	cols       int
	rows       int
	chunk      int
	scrollback int
}

func newReplayCmd(a *app) *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Decode a recorded terminal stream",
		Long: `Replay feeds FILE (raw terminal output, "-" for stdin) through the
decoder and prints the visible window, or with --plain the flattened text
including history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReplay(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.plain, "plain", false, "print the flattened text instead of the visible window")
	f.BoolVar(&opts.stats, "stats", false, "print buffer statistics")
	f.BoolVar(&opts.noColor, "no-color", false, "never emit color sequences")
	f.BoolVar(&opts.ascii, "ascii-box", false, "store box-drawing glyphs as ASCII")
	f.IntVar(&opts.cols, "cols", 0, "visible columns (default from config)")
	f.IntVar(&opts.rows, "rows", 0, "visible rows (default from config)")
	f.IntVar(&opts.chunk, "chunk", 0, "feed the input in chunks of this many bytes")
	f.IntVar(&opts.scrollback, "scrollback", 0, "show the window this many rows above the bottom")
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func (a *app) newTerminal(cols, rows int, ascii bool) *vtlog.Terminal {
	geo := a.cfg.Terminal.Geometry()
	if cols > 0 {
		geo.Columns = cols
	}
	if rows > 0 {
		geo.Rows = rows
	}
	return vtlog.New(vtlog.Options{
		Geometry:        geo,
		ASCIIBoxDrawing: ascii || a.cfg.Terminal.ASCIIBoxDrawing,
	})
}

func (a *app) runReplay(cmd *cobra.Command, name string, opts *replayOptions) error {
	data, err := readInput(cmd, name)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	t := a.newTerminal(opts.cols, opts.rows, opts.ascii)
	chunk := opts.chunk
	if chunk <= 0 {
		chunk = len(data)
	}
	for len(data) > 0 {
		n := min(chunk, len(data))
		t.Append(data[:n])
		data = data[n:]
	}

	out := cmd.OutOrStdout()
	if opts.plain {
		if _, err := io.WriteString(out, t.FlattenToText()); err != nil {
			return err
		}
	} else {
		color := !opts.noColor && isTerminal(out)
		if err := renderFrame(out, t.ExportRows(opts.scrollback), color); err != nil {
			return err
		}
	}

	stats := t.Stats()
	a.logger.Info("replay finished", "input", name, "rows", stats.Rows, "compactions", stats.Compactions)
	if opts.stats {
		printStats(out, stats)
	}
	return nil
}
