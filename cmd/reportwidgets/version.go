package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reportwidgets/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetVersion())
		return err
	},
}
