package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KhymNad/resume-matcher-api/internal/server"
	"github.com/KhymNad/resume-matcher-api/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for extraction, skill matching and vocabulary management.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().Float64("min-confidence", 0, "Default minimum merged entity confidence")
	serveCmd.Flags().String("tag-mapping", "", "Tag mapping version: v1 or v2")
	serveCmd.Flags().String("vocabulary", "", "Path to a YAML skill vocabulary")
	serveCmd.Flags().Int("max-gram", 0, "Longest vocabulary phrase to look up")
	serveCmd.Flags().Bool("score", false, "Rate matched skills for specificity with the LLM")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:       cfg.Port,
		Pipeline:   a.pipeline,
		SkillStore: a.skillStore,
		RateLimit:  ratelimit.LoadConfig(),
		OnShutdown: []func(){a.Close},
	}
	if a.store != nil {
		srvCfg.Extractions = a.store
	} else {
		slog.Info("no database configured; extraction storage disabled")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		a.Close()
		return err
	}
	return srv.Start()
}
