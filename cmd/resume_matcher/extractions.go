package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var extractionsCmd = &cobra.Command{
	Use:   "extractions",
	Short: "Inspect stored extraction results",
}

var extractionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent extractions",
	RunE:  runExtractionsList,
}

var extractionsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print one stored extraction as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractionsShow,
}

var (
	extractionsDatabaseURL string
	extractionsLimit       int
)

func init() {
	extractionsCmd.PersistentFlags().StringVar(&extractionsDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	extractionsListCmd.Flags().IntVar(&extractionsLimit, "limit", 20, "Maximum rows to list")

	extractionsCmd.AddCommand(extractionsListCmd, extractionsShowCmd)
	rootCmd.AddCommand(extractionsCmd)
}

func runExtractionsList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	store, err := connectDB(ctx, databaseURLOrEnv(extractionsDatabaseURL))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListExtractions(ctx, extractionsLimit)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%s  %s  %d skills  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), len(r.Skills), r.SourceURL)
	}
	return nil
}

func runExtractionsShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid extraction ID %q: %w", args[0], err)
	}

	ctx := commandContext(cmd)
	store, err := connectDB(ctx, databaseURLOrEnv(extractionsDatabaseURL))
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.GetExtraction(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("extraction not found: %s", id)
	}
	return writeJSON("", record)
}
