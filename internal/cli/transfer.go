package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Rrens/interaction-drafts/internal/app"
	"github.com/Rrens/interaction-drafts/internal/transfer"
	"github.com/spf13/cobra"
)

var (
	exportOutput    string
	exportClipboard bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the draft to a JSON document",
	Long: `Write the draft to a pretty-printed JSON document. Without --output the
file is named agent-interactions-<timestamp>.json in the current directory.
Use "-o -" to print to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var clipboard transfer.Clipboard
		if exportClipboard {
			clipboard = transfer.SystemClipboard{}
		}

		return withApp(cmd, clipboard, func(a *app.App) error {
			export, err := a.Editor.Export()
			if err != nil {
				return err
			}

			if exportOutput == "-" {
				_, err := cmd.OutOrStdout().Write(export.Document)
				return err
			}

			path := exportOutput
			if path == "" {
				path = export.Filename
			}
			if err := os.WriteFile(path, export.Document, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			if exportClipboard && !export.Copied {
				fmt.Fprintln(cmd.ErrOrStderr(), "Clipboard copy failed; the file was still written")
			}
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the draft with the interactions in a JSON document",
	Long:  `Replace the draft with the interactions in a JSON document. Use "-" to read stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, nil, func(a *app.App) error {
			count, err := a.Editor.Import(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d interactions\n", count)
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the draft with a single fresh interaction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, nil, func(a *app.App) error {
			a.Editor.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Draft reset")
			return nil
		})
	},
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, or - for stdout")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Also copy the document to the system clipboard")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}
