package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/rancher-client/internal/messages"
	"github.com/conn-castle/rancher-client/internal/updatewarn"
)

var reportUpdate = updatewarn.Report

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   messages.VersionUse,
		Short: messages.VersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), versionString()); err != nil {
				return err
			}
			if check {
				reportUpdate(cmd.Context(), Version, cmd.ErrOrStderr())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, messages.VersionFlagCheck)
	return cmd
}
