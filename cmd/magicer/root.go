package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/magicer/pkg/config"
)

// newRootCommand returns the CLI. opts are applied to every configuration load.
func newRootCommand(opts ...config.Option) *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "magicer",
		Short:         "File type analysis service.",
		Long:          "magicer identifies the type of uploaded content and of files under a sandbox directory.",
		Version:       version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"path to a YAML config file; MAGICER_* environment variables override it")

	load := func() (config.Config, error) {
		return config.Read(cfgPath, opts...)
	}
	root.AddCommand(newServeCommand(load))
	root.AddCommand(newSweepCommand(load))

	return root
}
