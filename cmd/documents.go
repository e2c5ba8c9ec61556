package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nselim/graphdesk/internal/config"
	"github.com/nselim/graphdesk/internal/tracker"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List documents in the backend knowledge base",
	RunE:  runDocuments,
}

func init() {
	documentsCmd.Flags().Bool("json", false, "output as JSON")
	documentsCmd.Flags().Bool("local", false, "list locally tracked uploads instead of the backend view")
	documentsCmd.Flags().Bool("clear-tracking", false, "forget local upload tracking so everything re-uploads")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	local, _ := cmd.Flags().GetBool("local")

	clearTracking, _ := cmd.Flags().GetBool("clear-tracking")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if clearTracking {
		return clearLocalTracking(cfg)
	}
	if local {
		return listLocalUploads(cfg, jsonOutput)
	}

	client := newBackendClient(cfg)
	list, err := client.Documents(context.Background())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if list.Total == 0 {
		fmt.Println("Knowledge base is empty. Run `graphdesk upload` to add documents.")
		return nil
	}

	fmt.Printf("%d documents in the knowledge base:\n\n", list.Total)
	for _, doc := range list.Documents {
		fmt.Printf("  %-40s %5d chunks", doc.Filename, doc.Chunks)
		if doc.ProcessedAt != "" {
			fmt.Printf("   %s", doc.ProcessedAt)
		}
		fmt.Println()
	}
	return nil
}

func listLocalUploads(cfg *config.Config, jsonOutput bool) error {
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	tr := tracker.New(database)
	records, err := tr.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing tracked uploads: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No uploads tracked yet.")
		return nil
	}

	fmt.Printf("%d tracked uploads:\n\n", len(records))
	for _, rec := range records {
		fmt.Printf("  %-40s %8d bytes   %s   %s\n",
			rec.Filename, rec.Size, rec.FileType, rec.UploadedAt.Format("2006-01-02 15:04"))
	}

	stats, err := tr.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d documents, %d bytes.\n", stats.TotalDocuments, stats.TotalBytes)
	return nil
}

func clearLocalTracking(cfg *config.Config) error {
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := tracker.New(database).Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Upload tracking cleared. The next `graphdesk upload` re-sends everything.")
	return nil
}
