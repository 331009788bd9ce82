package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reportwidgets/internal/config"
	"reportwidgets/internal/fetchers"
	"reportwidgets/internal/logger"
	"reportwidgets/internal/reports"
	"reportwidgets/internal/templates"
	"reportwidgets/internal/widgets"
)

// cfg is loaded once per invocation before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "reportwidgets",
	Short: "Render and publish HTML dashboard reports",
	Long: `reportwidgets assembles notebook-style HTML reports from YAML manifests:
price cards, KPI indicators, tabbed sections, charts and news feeds.

Configuration comes from the environment (WIDGETS_*, STORAGE_BACKEND,
LOCAL_REPORTS_DIR, GCS_BUCKET, PORT, LOG_LEVEL, LOG_FORMAT).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Configure(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newBuilder wires the template loader selected by cfg into a widget builder
func newBuilder(fetcher *fetchers.DataFetcher) (*widgets.Builder, error) {
	loader, err := templates.NewLoader(cfg, fetcher)
	if err != nil {
		return nil, err
	}
	return widgets.NewBuilder(loader), nil
}

// newAssembler wires the full report pipeline
func newAssembler() (*reports.Assembler, error) {
	fetcher := fetchers.NewDataFetcher(cfg.HTTPTimeout)
	builder, err := newBuilder(fetcher)
	if err != nil {
		return nil, err
	}
	return reports.NewAssembler(builder, fetcher), nil
}

// assembleFile loads a manifest and renders it
func assembleFile(cmd *cobra.Command, path string) (*reports.Manifest, string, error) {
	manifest, err := reports.LoadManifest(path)
	if err != nil {
		return nil, "", err
	}

	assembler, err := newAssembler()
	if err != nil {
		return nil, "", err
	}

	page, err := assembler.Assemble(cmd.Context(), manifest)
	if err != nil {
		return nil, "", fmt.Errorf("failed to assemble %s: %w", path, err)
	}
	return manifest, page, nil
}
