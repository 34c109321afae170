// cmd_capture.go - capture this process's stdout/stderr around a child command
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rodjjo/diffusion-expert-sub000/internal/console"
)

type captureOptions struct {
	tee   bool
	plain bool
}

func newCaptureCmd(a *app) *cobra.Command {
	opts := &captureOptions{}
	cmd := &cobra.Command{
		Use:   "capture [flags] -- COMMAND [ARGS...]",
		Short: "Capture stdout and stderr while a command runs",
		Long: `Capture redirects this process's stdout and stderr into console
terminals, runs COMMAND with both streams inherited, restores the streams
and prints what each channel received.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCapture(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.tee, "tee", false, "keep showing output while capturing")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print flattened text instead of the visible windows")
	return cmd
}

func (a *app) runCapture(cmd *cobra.Command, args []string, opts *captureOptions) error {
	cfg := *a.cfg
	if opts.tee {
		cfg.Capture.Tee = true
	}

	con := console.Open(cmd.Context(), &cfg, a.logger)

	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	runErr := child.Run()

	if err := con.Close(); err != nil {
		a.logger.Error("console close failed", "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	out := cmd.OutOrStdout()
	for _, ch := range con.Channels() {
		if err := printChannel(out, ch, opts.plain); err != nil {
			return err
		}
	}

	if runErr != nil {
		return fmt.Errorf("%s: %w", args[0], runErr)
	}
	return nil
}

func printChannel(w io.Writer, ch *console.Channel, plain bool) error {
	var captured int64
	if ch.Capture != nil {
		captured = ch.Capture.Bytes()
	}
	fmt.Fprintf(w, "== %s (%s captured) ==\n", ch.Name, humanize.IBytes(uint64(captured)))

	if plain {
		text := ch.Terminal.FlattenToText()
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		if len(text) > 0 && text[len(text)-1] != '\n' {
			fmt.Fprintln(w)
		}
		return nil
	}
	return renderFrame(w, ch.Terminal.ExportVisibleRows(), false)
}
