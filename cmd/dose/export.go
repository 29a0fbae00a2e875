// ABOUTME: CLI commands for exporting and importing dose data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export dose data",
	Long: `Export dose data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include doses since this date (markdown only)

EXAMPLES:

  dose export json                        # Export all data as JSON
  dose export json -o backup.json         # Save to file
  dose export yaml                        # Export as YAML
  dose export markdown --since 2025-01-01 # Doses from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown":
			var md string
			md, err = exportMarkdown()
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

func exportMarkdown() (string, error) {
	if exportSince == "" {
		return storage.ExportMarkdown(repo, nil)
	}
	since, err := engine.ParseDayKey(exportSince, trk.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
	}
	return storage.ExportMarkdown(repo, &since)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import dose data from JSON",
	Long: `Import dose data from a JSON backup file.

This imports compounds, schedules, and doses from a previously exported
JSON file. Compounds and schedules with an existing ID are replaced;
a dose that is already logged causes an error.

EXAMPLES:

  dose import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := storage.ImportJSON(repo, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include doses since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
