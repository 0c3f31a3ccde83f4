package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears the variables loadSettings reads so a developer .env
// cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL", "NER_URL", "NER_API_KEY", "HF_API_TOKEN",
		"GEMINI_API_KEY", "MIN_CONFIDENCE",
	} {
		t.Setenv(key, "")
	}
	prevConfig, prevVerbose := configPath, verbose
	t.Cleanup(func() { configPath, verbose = prevConfig, prevVerbose })
	configPath, verbose = "", false
}

// settingsCommand returns a command carrying the flags loadSettings reads.
func settingsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Float64("min-confidence", 0, "")
	cmd.Flags().String("tag-mapping", "", "")
	cmd.Flags().String("vocabulary", "", "")
	cmd.Flags().Int("max-gram", 0, "")
	cmd.Flags().Int("port", 0, "")
	cmd.Flags().Bool("score", false, "")
	return cmd
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// emptyNERServer answers every inference request with no predictions.
func emptyNERServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}
