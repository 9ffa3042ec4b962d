package main

import (
	"github.com/spf13/cobra"

	"github.com/scim-go/scimcore/internal/logging"
)

var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "scimctl",
		Short:   "Apply and inspect SCIM PATCH operations, filters, and paths",
		Version: version,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a scimctl config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newPatchCmd())
	cmd.AddCommand(newFilterCmd())

	return cmd
}

func loggerFor(opts *rootOptions) logging.Logger {
	return logging.New(logging.Config{
		Level:  opts.logLevel,
		Format: "text",
		Output: "stderr",
	})
}
