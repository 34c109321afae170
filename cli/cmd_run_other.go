// cmd_run_other.go - run is unavailable without a unix PTY
//go:build windows

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [flags] -- COMMAND [ARGS...]",
		Short: "Run a command in a pseudo-terminal (unix only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("run needs a unix pseudo-terminal")
		},
	}
}
