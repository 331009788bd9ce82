package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reportwidgets/internal/logger"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render MANIFEST",
	Short: "Render a report manifest to HTML",
	Long:  "Assemble the report described by MANIFEST and write the page to a file or stdout.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, page, err := assembleFile(cmd, args[0])
		if err != nil {
			return err
		}

		if renderOutput == "" || renderOutput == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), page)
			return err
		}

		if err := os.WriteFile(renderOutput, []byte(page), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", renderOutput, err)
		}
		logger.Info("Report written", map[string]interface{}{
			"path":  renderOutput,
			"bytes": len(page),
		})
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
}
