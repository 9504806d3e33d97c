package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/conn-castle/rancher-client/internal/logging"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	debug      bool
}

// logger builds the diagnostic logger; --debug wins over --log-level.
func (o *globalOptions) logger(w io.Writer) (*log.Logger, error) {
	level := o.logLevel
	if o.debug {
		level = "debug"
	}
	return logging.New(w, level)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", messages.RootFlagConfig)
	flags.StringVar(&opts.logLevel, "log-level", logging.DefaultLevel, messages.RootFlagLevel)
	flags.BoolVar(&opts.debug, "debug", false, messages.RootFlagDebug)

	cmd.AddCommand(newUpgradeCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}
