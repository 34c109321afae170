// cmd_run_unix.go - run a command in a PTY and watch it through a Terminal
//go:build !windows

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type runOptions struct {
	cols     int
	rows     int
	interval time.Duration
	record   string
	ascii    bool
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] -- COMMAND [ARGS...]",
		Short: "Run a command in a pseudo-terminal and watch its screen",
		Long: `Run starts COMMAND in a pseudo-terminal, decodes its output into a
terminal buffer and repaints whenever the buffer version moves. Without a
terminal on stdout only the final screen is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRun(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.cols, "cols", 0, "visible columns (default: current terminal or config)")
	f.IntVar(&opts.rows, "rows", 0, "visible rows (default: current terminal or config)")
	f.DurationVar(&opts.interval, "interval", 0, "version poll interval (default from config)")
	f.StringVar(&opts.record, "record", "", "also write the raw output to this file for replay")
	f.BoolVar(&opts.ascii, "ascii-box", false, "store box-drawing glyphs as ASCII")
	return cmd
}

func (a *app) runRun(cmd *cobra.Command, args []string, opts *runOptions) error {
	out := cmd.OutOrStdout()
	interactive := isTerminal(out) && isTerminal(cmd.InOrStdin())

	cols, rows := opts.cols, opts.rows
	if f, ok := out.(*os.File); ok && (cols == 0 || rows == 0) {
		if c, r, err := term.GetSize(int(f.Fd())); err == nil && c > 0 && r > 0 {
			if cols == 0 {
				cols = c
			}
			if rows == 0 {
				rows = r
			}
		}
	}
	t := a.newTerminal(cols, rows, opts.ascii)
	geo := t.Geometry()

	interval := opts.interval
	if interval <= 0 {
		interval = a.cfg.Terminal.PollInterval()
	}

	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Env = append(os.Environ(),
		"TERM=xterm-256color",
		fmt.Sprintf("COLUMNS=%d", geo.Columns),
		fmt.Sprintf("LINES=%d", geo.Rows),
	)

	ptmx, err := pty.StartWithSize(child, &pty.Winsize{
		Rows: uint16(geo.Rows),
		Cols: uint16(geo.Columns),
	})
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", args[0], err)
	}
	defer ptmx.Close()
	log := a.logger.With("command", args[0], "pid", child.Process.Pid)
	log.Info("child started", "cols", geo.Columns, "rows", geo.Rows)

	var sink io.Writer = t
	if opts.record != "" {
		rec, err := os.Create(opts.record)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer rec.Close()
		sink = io.MultiWriter(t, rec)
	}

	if interactive {
		stdin := int(os.Stdin.Fd())
		if old, err := term.MakeRaw(stdin); err == nil {
			defer term.Restore(stdin, old)
		}
		// Exits with the process; stdin reads cannot be interrupted.
		go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	}

	done := make(chan struct{})
	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(done)
		if _, err := io.Copy(sink, ptmx); err != nil && !isPTYClosed(err) {
			log.Warn("pty read failed", "error", err)
		}
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var last uint64
poll:
	for {
		select {
		case <-done:
			break poll
		case <-ticker.C:
			if v := t.Version(); v != last && interactive {
				last = v
				if err := repaint(out, t.ExportVisibleRows()); err != nil {
					log.Warn("repaint failed", "error", err)
				}
			}
		}
	}
	wg.Wait()
	waitErr := child.Wait()

	frame := t.ExportVisibleRows()
	if interactive {
		err = repaint(out, frame)
		fmt.Fprint(out, "\r\n")
	} else {
		err = renderFrame(out, frame, false)
	}
	if err != nil {
		return err
	}

	log.Info("child exited", "error", waitErr, "version", frame.Version)
	if waitErr != nil {
		return fmt.Errorf("%s: %w", args[0], waitErr)
	}
	return nil
}

// isPTYClosed reports the error a PTY master returns once the child side is
// gone (EIO on linux).
func isPTYClosed(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}
