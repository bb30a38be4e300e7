package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/cursor-export/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	discoverLimit int
	searchText    string
	previewLines  = 10
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover [directory]",
	Short: "Find state databases and preview their chats",
	Long: `Walk a directory tree for state databases and print a preview of each
chat found, newest database first.

Without a directory the configured workspace storage directory is used.
With --search only chats containing the text are shown and all databases
are scanned regardless of --limit's default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		root := ""
		if len(args) > 0 {
			root = args[0]
		} else {
			root, err = cfg.WorkspaceStorageDir()
			if err != nil {
				return err
			}
		}

		limit := discoverLimit
		if !cmd.Flags().Changed("limit") {
			// Unbounded when searching, a small default otherwise.
			if searchText != "" {
				limit = -1
			} else {
				limit = 10
			}
		}

		dbPaths, err := internal.DiscoverStateDBs(root, limit)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", root, err)
		}

		exporter := internal.NewExporter(log)
		shown := 0
		for _, dbPath := range dbPaths {
			db, err := internal.OpenDatabase(dbPath)
			if err != nil {
				log.Error("failed to open database", zap.String("path", dbPath), zap.Error(err))
				continue
			}
			records, err := internal.FetchChatRecords(db, cfg.AIChatQuery, log)
			_ = db.Close()
			if err != nil {
				log.Error("failed to query chat data", zap.String("path", dbPath), zap.Error(err))
				continue
			}

			docs := exporter.Format(records, internal.FormatOptions{})
			if len(docs) == 0 {
				log.Debug("no chat data found", zap.String("path", dbPath))
				continue
			}

			for _, doc := range docs {
				if searchText != "" && !containsLine(doc.Body, searchText) {
					continue
				}
				fmt.Printf("DATABASE: %s\n\n", dbPath)
				fmt.Println(internal.RenderMarkdown(preview(doc.Body)))
				shown++
			}
		}

		if shown == 0 {
			internal.PrintInfo("No results found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 10, "Maximum number of databases to process (-1 for all)")
	discoverCmd.Flags().StringVar(&searchText, "search", "", "Only show chats containing this text")
}

// preview returns the first lines of a document with an ellipsis marker.
func preview(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) <= previewLines {
		return body
	}
	return strings.Join(lines[:previewLines], "\n") + "\n..."
}

// containsLine reports whether any line of the body contains the text,
// case-insensitively.
func containsLine(body, text string) bool {
	needle := strings.ToLower(text)
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			return true
		}
	}
	return false
}
