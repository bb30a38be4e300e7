package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iksnae/cursor-export/internal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputDir string
	imageDir  string
	tabIDs    string
	latestTab bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [db-path]",
	Short: "Export chat history to markdown files",
	Long: `Export chat history from a state database to markdown files.

Without a database path the most recently used workspace is exported.
Without --out the rendered documents are printed to the terminal instead
of being written to disk.`,
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
		log.Info("exporting chat history", zap.String("database", dbPath))

		db, err := internal.OpenDatabase(dbPath)
		if err != nil {
			return err
		}
		records, err := internal.FetchChatRecords(db, cfg.AIChatQuery, log)
		_ = db.Close()
		if err != nil {
			return fmt.Errorf("failed to query chat data: %w", err)
		}

		filter, err := parseTabIDs(tabIDs)
		if err != nil {
			return err
		}

		opts := internal.FormatOptions{
			TabFilter:     filter,
			LatestTabOnly: latestTab,
		}
		if outputDir != "" {
			opts.ImageRoot = imageDir
		}

		exporter := internal.NewExporter(log)
		docs := exporter.Format(records, opts)
		if len(docs) == 0 {
			internal.PrintInfo("No chat content found")
			return nil
		}

		if outputDir == "" {
			for _, doc := range docs {
				fmt.Println(internal.RenderMarkdown(doc.Body))
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		saver := internal.NewMarkdownSaver(outputDir, log)
		saved := internal.SaveAll(saver, docs, log)

		internal.PrintSuccess(fmt.Sprintf("Exported %d chat(s) to %s", saved, outputDir))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (omit to print to the terminal)")
	exportCmd.Flags().StringVar(&imageDir, "image-dir", "images", "Directory bubble images are copied into")
	exportCmd.Flags().StringVar(&tabIDs, "tab-ids", "", "Comma-separated 1-based tab IDs to export, e.g. '1,2,3'")
	exportCmd.Flags().BoolVar(&latestTab, "latest-tab", false, "Export only the latest tab of each chat")
}

// parseTabIDs converts a comma-separated list of 1-based tab IDs into a
// 0-based index set. An empty list means no filter.
func parseTabIDs(list string) (map[int]bool, error) {
	if list == "" {
		return nil, nil
	}

	filter := make(map[int]bool)
	for _, field := range strings.Split(list, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid tab ID %q: %w", field, err)
		}
		filter[id-1] = true
	}
	return filter, nil
}
