package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/magicer/pkg/config"
)

func newServeCommand(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the temp file sweeper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return a.run(cmd.Context())
		},
	}
}
