// Package cli implements the draftctl command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/Rrens/interaction-drafts/internal/app"
	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/logging"
	"github.com/Rrens/interaction-drafts/internal/transfer"
	"github.com/spf13/cobra"
)

var (
	configPath string
	backend    string
	draftDir   string
	draftKey   string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "draftctl",
	Short: "Inspect and sync agent interaction drafts",
	Long: `draftctl works on the same local draft as the interaction drafts server.

It can print the current workspace, export it to a JSON document, replace it
from one, and hydrate from or publish to the remote configuration service.

Examples:
  draftctl show --format yaml
  draftctl export -o agents.json
  draftctl import agents.json
  draftctl publish --yes`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			os.Setenv("CONFIG_PATH", configPath)
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if backend != "" {
			loaded.Draft.Backend = backend
		}
		if draftDir != "" {
			loaded.Draft.Dir = draftDir
		}
		if draftKey != "" {
			loaded.Draft.Key = draftKey
		}
		if verbose {
			loaded.Logging.Level = "debug"
		} else {
			loaded.Logging.Level = "warn"
		}
		loaded.Logging.Format = "console"
		loaded.Logging.File = ""

		if _, err := logging.Setup(loaded.Logging); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Draft backend: memory, file, redis, sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&draftDir, "dir", "", "Draft directory for the file backend")
	rootCmd.PersistentFlags().StringVar(&draftKey, "key", "", "Draft key")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// withApp builds the editor, runs fn and flushes the draft afterwards
func withApp(cmd *cobra.Command, clipboard transfer.Clipboard, fn func(*app.App) error) error {
	a, err := app.Build(cmd.Context(), cfg, clipboard)
	if err != nil {
		return fmt.Errorf("failed to open draft: %w", err)
	}
	defer a.Close()

	return fn(a)
}
