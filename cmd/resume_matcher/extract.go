package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KhymNad/resume-matcher-api/internal/db"
	"github.com/KhymNad/resume-matcher-api/internal/ingestion"
	"github.com/KhymNad/resume-matcher-api/internal/observability"
	"github.com/KhymNad/resume-matcher-api/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract categorized entities and skills from a resume",
	Long:  "Clean a resume from a text file or web page, run it through the NER model and print the categorized entities and matched skills as JSON.",
	RunE:  runExtract,
}

var (
	extractInputFile  string
	extractURL        string
	extractOutputFile string
	extractSave       bool
	extractNoCamel    bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to a .txt or .md resume")
	extractCmd.Flags().StringVar(&extractURL, "url", "", "URL of an HTML resume page")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Store the result in the database")
	extractCmd.Flags().BoolVar(&extractNoCamel, "no-camel-split", false, "Do not split joined camelCase words while cleaning")
	extractCmd.Flags().Float64("min-confidence", 0, "Minimum merged entity confidence (default from config)")
	extractCmd.Flags().String("tag-mapping", "", "Tag mapping version: v1 or v2")
	extractCmd.Flags().String("vocabulary", "", "Path to a YAML skill vocabulary")
	extractCmd.Flags().Int("max-gram", 0, "Longest vocabulary phrase to look up")
	extractCmd.Flags().Bool("score", false, "Rate matched skills for specificity with the LLM")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if (extractInputFile == "") == (extractURL == "") {
		return fmt.Errorf("exactly one of --in or --url is required")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if extractSave && cfg.DatabaseURL == "" {
		return fmt.Errorf("--save requires a database (set DATABASE_URL or database_url)")
	}

	ctx := commandContext(cmd)

	text, meta, err := ingestResume(ctx)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var onProgress pipeline.ProgressCallback
	var printer *observability.Printer
	if cfg.Verbose {
		printer = observability.NewPrinter(os.Stderr)
		onProgress = printer.PrintProgress
		fmt.Fprintf(os.Stderr, "Ingested %d characters from %s (sha256 %s)\n", meta.Characters, meta.Source, meta.Digest)
	}

	result, err := a.pipeline.RunWithProgress(ctx, text, cfg.MinConfidence, onProgress)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if printer != nil {
		printer.PrintResult(result)
	}

	if extractSave {
		record := db.NewExtraction(result.Response(), meta.URL, result.TagMapping)
		if err := a.store.SaveExtraction(ctx, record); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved extraction %s\n", record.ID)
	}

	return writeJSON(extractOutputFile, result.Response())
}

func ingestResume(ctx context.Context) (string, *ingestion.Metadata, error) {
	opts := ingestion.DefaultCleanOptions()
	opts.SplitCamelCase = !extractNoCamel
	if extractURL != "" {
		return ingestion.IngestFromURL(ctx, extractURL, opts)
	}
	return ingestion.IngestFromFile(extractInputFile, opts)
}

// writeJSON writes v as indented JSON to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
