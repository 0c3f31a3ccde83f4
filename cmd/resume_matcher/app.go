package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KhymNad/resume-matcher-api/internal/config"
	"github.com/KhymNad/resume-matcher-api/internal/db"
	"github.com/KhymNad/resume-matcher-api/internal/extraction"
	"github.com/KhymNad/resume-matcher-api/internal/llm"
	"github.com/KhymNad/resume-matcher-api/internal/ner"
	"github.com/KhymNad/resume-matcher-api/internal/pipeline"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
)

// loadSettings resolves configuration in order: explicit flags, config file,
// environment, built-in defaults.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *fileCfg
	}
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())

	flags := cmd.Flags()
	if flags.Changed("min-confidence") {
		cfg.MinConfidence, _ = flags.GetFloat64("min-confidence")
	}
	if flags.Changed("tag-mapping") {
		cfg.TagMapping, _ = flags.GetString("tag-mapping")
	}
	if flags.Changed("vocabulary") {
		cfg.VocabularyFile, _ = flags.GetString("vocabulary")
	}
	if flags.Changed("max-gram") {
		cfg.MaxNGram, _ = flags.GetInt("max-gram")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("score") {
		cfg.ScoreSkills, _ = flags.GetBool("score")
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// app holds the collaborators built from a Config and the functions that
// release them.
type app struct {
	cfg        config.Config
	store      *db.DB
	skillStore skills.Store
	vocabulary *skills.Vocabulary
	pipeline   *pipeline.Pipeline
	closers    []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// newApp connects the configured backends and builds the pipeline. Optional
// backends that fail to connect are logged and skipped.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.DatabaseURL != "" {
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
		if err := store.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.skillStore = selectSkillStore(cfg, a.store)
	a.vocabulary = skills.NewVocabulary(cfg.MaxNGram)
	if a.skillStore != nil {
		if err := a.vocabulary.Load(ctx, a.skillStore); err != nil {
			a.Close()
			return nil, err
		}
	} else {
		slog.Warn("no skill vocabulary configured; only NER skills will be reported")
	}

	recognizer, err := a.buildRecognizer(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	mapping, err := extraction.TagMappingByVersion(cfg.TagMapping)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := pipeline.Options{
		MinConfidence: cfg.MinConfidence,
		ChunkSize:     cfg.ChunkSize,
		MaxGram:       cfg.MaxNGram,
		TagMapping:    mapping,
		OffsetMode:    pipeline.OffsetMode(cfg.OffsetMode),
		Concurrency:   cfg.Concurrency,
	}
	if cfg.ScoreSkills {
		scorer, err := a.buildScorer(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts.Scorer = scorer
	}

	a.pipeline, err = pipeline.New(recognizer, a.vocabulary, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// selectSkillStore prefers a vocabulary file over the database.
func selectSkillStore(cfg config.Config, store *db.DB) skills.Store {
	switch {
	case cfg.VocabularyFile != "":
		return skills.FileStore{Path: cfg.VocabularyFile}
	case store != nil:
		return store
	default:
		return nil
	}
}

func (a *app) buildRecognizer(ctx context.Context) (ner.Recognizer, error) {
	client, err := ner.NewHTTPClient(ner.Config{
		URL:           a.cfg.NERURL,
		APIKey:        a.cfg.NERAPIKey,
		RatePerSecond: a.cfg.NERRatePerSec,
		Burst:         a.cfg.Concurrency,
		Retry:         ner.DefaultRetryConfig,
	})
	if err != nil {
		return nil, err
	}
	if a.cfg.RedisURL == "" {
		return client, nil
	}

	rdb, err := ner.ConnectRedis(ctx, a.cfg.RedisURL)
	if err != nil {
		slog.Warn("NER cache unavailable, calling the model directly", slog.Any("error", err))
		return client, nil
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	return ner.NewCachedRecognizer(client, rdb, client.URL(), a.cfg.CacheTTL()), nil
}

func (a *app) buildScorer(ctx context.Context) (skills.Scorer, error) {
	if a.cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("skill scoring requires an API key (set GEMINI_API_KEY or gemini_api_key)")
	}
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), a.cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	return skills.NewLLMScorer(client), nil
}
