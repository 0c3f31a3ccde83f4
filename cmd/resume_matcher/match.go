package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KhymNad/resume-matcher-api/internal/ingestion"
	"github.com/KhymNad/resume-matcher-api/internal/observability"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

var matchSkillsCmd = &cobra.Command{
	Use:   "match-skills",
	Short: "Match resume text against the skill vocabulary without calling NER",
	Long:  "Reconcile a list of candidate skills with the vocabulary matches found in a resume. No model call is made.",
	RunE:  runMatchSkills,
}

var (
	matchInputFile string
	matchText      string
	matchNERSkills []string
)

func init() {
	matchSkillsCmd.Flags().StringVarP(&matchInputFile, "in", "i", "", "Path to a .txt or .md resume")
	matchSkillsCmd.Flags().StringVar(&matchText, "text", "", "Resume text given inline")
	matchSkillsCmd.Flags().StringSliceVar(&matchNERSkills, "ner-skills", nil, "Comma-separated skill candidates to keep with NER provenance")
	matchSkillsCmd.Flags().String("vocabulary", "", "Path to a YAML skill vocabulary")
	matchSkillsCmd.Flags().Int("max-gram", 0, "Longest vocabulary phrase to look up")

	rootCmd.AddCommand(matchSkillsCmd)
}

func runMatchSkills(cmd *cobra.Command, _ []string) error {
	if (matchInputFile == "") == (matchText == "") {
		return fmt.Errorf("exactly one of --in or --text is required")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.VocabularyFile == "" && cfg.DatabaseURL == "" {
		return fmt.Errorf("a vocabulary is required (use --vocabulary or set DATABASE_URL)")
	}

	ctx := commandContext(cmd)

	text := matchText
	if matchInputFile != "" {
		text, _, err = ingestion.IngestFromFile(matchInputFile, ingestion.DefaultCleanOptions())
		if err != nil {
			return err
		}
	}

	vocab, closeFn, err := loadVocabulary(ctx, cfg.VocabularyFile, cfg.DatabaseURL, cfg.MaxNGram)
	if err != nil {
		return err
	}
	defer closeFn()

	matched := vocab.MatchSkillsWithGram(text, matchNERSkills, cfg.MaxNGram)
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintMatchedSkills(matched)
	}

	return writeJSON("", struct {
		Skills []types.MatchedSkill `json:"skills"`
		Count  int                  `json:"count"`
	}{Skills: matched, Count: len(matched)})
}

// loadVocabulary loads skills from the YAML file when given, otherwise from
// the database.
func loadVocabulary(ctx context.Context, file, databaseURL string, maxGram int) (*skills.Vocabulary, func(), error) {
	vocab := skills.NewVocabulary(maxGram)
	if file != "" {
		if err := vocab.Load(ctx, skills.FileStore{Path: strings.TrimSpace(file)}); err != nil {
			return nil, nil, err
		}
		return vocab, func() {}, nil
	}

	store, err := connectDB(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := vocab.Load(ctx, store); err != nil {
		store.Close()
		return nil, nil, err
	}
	return vocab, store.Close, nil
}
