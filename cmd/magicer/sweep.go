package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/magicer/pkg/config"
)

func newSweepCommand(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove stale temp files from the work directory once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			n, err := newSweeper(cfg.Analysis, log).Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale temp file(s) from %s\n", n, cfg.Analysis.WorkDir)
			return nil
		},
	}
}
