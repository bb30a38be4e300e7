package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/cursor-export/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	// log is built once per invocation and handed to every component.
	log *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cursor-export",
	Short: "Export Cursor IDE chat history to markdown",
	Long: `Export AI chat history from Cursor's local state databases to markdown.

The state store has no stable schema: tab chats, composer sessions, the
prompt and generation logs and the disk response cache all encode turns
differently. This tool reconciles them into one markdown document per
conversation, degrading gracefully on malformed records.

Quick Start:
  cursor-export export --out ./chats     # Export the latest workspace
  cursor-export discover                 # Find state databases with chats
  cursor-export inspect                  # Poke at a database's tables`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = internal.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "Path to the YAML config file")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// resolveDBPath returns the database path from args, falling back to the
// latest workspace's state database.
func resolveDBPath(args []string, cfg *internal.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	storageDir, err := cfg.WorkspaceStorageDir()
	if err != nil {
		return "", err
	}
	return internal.LatestWorkspaceDB(storageDir)
}
