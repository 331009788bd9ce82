package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reportwidgets/internal/reports"
	"reportwidgets/internal/storage"
)

var publishName string

var publishCmd = &cobra.Command{
	Use:   "publish MANIFEST",
	Short: "Render a report and publish it to the configured storage",
	Long: `Assemble the report described by MANIFEST and store it as index.html under
YYYY/MM/DD/<name>-YYYY-MM-DD-HH-MM-SS/ in the local directory or GCS bucket
selected by STORAGE_BACKEND. The name defaults to the manifest title.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, page, err := assembleFile(cmd, args[0])
		if err != nil {
			return err
		}

		store, err := storage.NewStorageClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		name := publishName
		if name == "" {
			name = manifest.Title
		}

		folder, err := reports.NewPublisher(store).Publish(cmd.Context(), name, page, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), folder)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishName, "name", "", "report folder name (default: manifest title)")
}
