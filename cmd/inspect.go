package cmd

import (
	"fmt"

	"github.com/iksnae/cursor-export/internal"
	"github.com/spf13/cobra"
)

var inspectKey string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [db-path]",
	Short: "Inspect a state database",
	Long: `List the tables of a state database, its ItemTable keys and the
chat-adjacent entries, or dump a single key with --key.

Without a database path the most recently used workspace is inspected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dbPath, err := resolveDBPath(args, cfg)
		if err != nil {
			return fmt.Errorf("failed to locate state database: %w", err)
		}

		db, err := internal.OpenDatabase(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if inspectKey != "" {
			value, err := internal.InspectKey(db, inspectKey)
			if err != nil {
				return err
			}
			fmt.Printf("%s:\n%s\n", inspectKey, value)
			return nil
		}

		tables, err := internal.ListTables(db)
		if err != nil {
			return err
		}
		fmt.Println("Tables:")
		for _, table := range tables {
			fmt.Printf("  - %s\n", table)
		}

		keys, err := internal.ListItemTableKeys(db)
		if err != nil {
			// ItemTable may be absent on partial databases.
			internal.PrintInfo("No ItemTable in this database")
			return nil
		}
		fmt.Println("\nItemTable keys:")
		for _, key := range keys {
			fmt.Printf("  - %s\n", key)
		}

		previews, err := internal.PreviewChatKeys(db)
		if err != nil {
			return err
		}
		if len(previews) > 0 {
			fmt.Println("\nChat-adjacent entries:")
			for _, p := range previews {
				fmt.Printf("  %s\n    %s...\n", p.Key, p.Preview)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectKey, "key", "", "Dump the full value of a single ItemTable key")
}
