package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhymNad/resume-matcher-api/internal/db"
	"github.com/KhymNad/resume-matcher-api/internal/ner"
	"github.com/KhymNad/resume-matcher-api/internal/pipeline"
	"github.com/KhymNad/resume-matcher-api/internal/server/ratelimit"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*db.Extraction
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[uuid.UUID]*db.Extraction)}
}

func (m *memoryStore) SaveExtraction(_ context.Context, e *db.Extraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.CreatedAt = time.Now().UTC()
	m.records[e.ID] = e
	return nil
}

func (m *memoryStore) GetExtraction(_ context.Context, id uuid.UUID) (*db.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id], nil
}

func noEntities() ner.Recognizer {
	return ner.RecognizerFunc(func(context.Context, string) ([]types.RawEntity, error) {
		return []types.RawEntity{}, nil
	})
}

func newTestServer(t *testing.T, rec ner.Recognizer, cfg Config) *Server {
	t.Helper()
	vocab := skills.NewVocabulary(3)
	vocab.Replace([]string{"Python", "Docker"})

	p, err := pipeline.New(rec, vocab, pipeline.Options{MinConfidence: 0.9})
	require.NoError(t, err)

	cfg.Pipeline = p
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.cleanup)
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNew_RequiresPipeline(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["vocabulary_loaded"])
	assert.Equal(t, float64(2), body["vocabulary_size"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodOptions, "/extract", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtract_MatchesVocabulary(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Built services in Python and Docker"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[types.ExtractResponse](t, rec)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, []string{"Docker", "Python"}, resp.Categories[types.CategorySkills])
	assert.Equal(t, []types.MatchedSkill{
		{Skill: "Docker", Source: types.SkillSourceNGram},
		{Skill: "Python", Source: types.SkillSourceNGram},
	}, resp.Skills)
	assert.Equal(t, 1, resp.ChunkCount)
}

func TestExtract_ConfidenceOverride(t *testing.T) {
	rec := ner.RecognizerFunc(func(context.Context, string) ([]types.RawEntity, error) {
		return []types.RawEntity{
			{Tag: "B-PER", Text: "Ada", Confidence: 0.8, Start: 0, End: 3},
		}, nil
	})
	s := newTestServer(t, rec, Config{})

	strict := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Ada Lovelace"})
	require.Equal(t, http.StatusOK, strict.Code)
	assert.Empty(t, decodeBody[types.ExtractResponse](t, strict).Categories[types.CategoryPersons])

	low := 0.5
	loose := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Ada Lovelace", MinConfidence: &low})
	require.Equal(t, http.StatusOK, loose.Code)
	assert.Equal(t, []string{"Ada"}, decodeBody[types.ExtractResponse](t, loose).Categories[types.CategoryPersons])
}

func TestExtract_BadRequests(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", "{not json"},
		{"empty body", ""},
		{"missing text", map[string]any{}},
		{"blank text", map[string]any{"text": "   "}},
		{"confidence out of range", map[string]any{"text": "Go", "min_confidence": 1.5}},
		{"invalid url", map[string]any{"url": "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/extract", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "validation error")
		})
	}
}

func TestExtract_RecognizerFailure(t *testing.T) {
	rec := ner.RecognizerFunc(func(context.Context, string) ([]types.RawEntity, error) {
		return nil, &ner.APICallError{StatusCode: http.StatusServiceUnavailable, Message: "model loading"}
	})
	s := newTestServer(t, rec, Config{})

	resp := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Python"})
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, decodeBody[map[string]string](t, resp)["error"], "model loading")
}

func TestExtract_SaveAndGet(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, noEntities(), Config{Extractions: store})

	rec := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Python", Save: true})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[types.ExtractResponse](t, rec)

	stored, err := store.GetExtraction(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "v2", stored.TagMapping)

	get := doRequest(s, http.MethodGet, "/extractions/"+resp.ID.String(), nil)
	require.Equal(t, http.StatusOK, get.Code)
	record := decodeBody[db.Extraction](t, get)
	assert.Equal(t, resp.ID, record.ID)
	assert.Equal(t, []string{"Python"}, record.Categories[types.CategorySkills])
}

func TestExtract_SaveWithoutStore(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Python", Save: true})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetExtraction(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{Extractions: newMemoryStore()})

	assert.Equal(t, http.StatusBadRequest, doRequest(s, http.MethodGet, "/extractions/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(s, http.MethodGet, "/extractions/"+uuid.NewString(), nil).Code)

	unconfigured := newTestServer(t, noEntities(), Config{})
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(unconfigured, http.MethodGet, "/extractions/"+uuid.NewString(), nil).Code)
}

func TestExtractStream(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodPost, "/extract/stream", types.ExtractRequest{Text: "Python and Docker"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: step\n")
	assert.Contains(t, body, `"step":"chunk"`)
	assert.Contains(t, body, "event: result\n")
	assert.Contains(t, body, "event: complete\n")
	assert.Contains(t, body, `"status":"completed"`)
}

func TestExtractStream_Failure(t *testing.T) {
	rec := ner.RecognizerFunc(func(context.Context, string) ([]types.RawEntity, error) {
		return nil, errors.New("boom")
	})
	s := newTestServer(t, rec, Config{})

	resp := doRequest(s, http.MethodPost, "/extract/stream", types.ExtractRequest{Text: "Python"})
	body := resp.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.NotContains(t, body, "event: complete\n")
}

func TestMatchSkills(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodPost, "/skills/match", types.MatchSkillsRequest{
		Text:      "Python developer",
		NERSkills: []string{"Kubernetes", "python"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Skills []types.MatchedSkill `json:"skills"`
		Count  int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, []types.MatchedSkill{
		{Skill: "Kubernetes", Source: types.SkillSourceNER},
		{Skill: "python", Source: types.SkillSourceNER},
	}, body.Skills)

	bad := doRequest(s, http.MethodPost, "/skills/match", types.MatchSkillsRequest{Text: "Go", MaxGram: 9})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestVocabulary(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{SkillStore: skills.StaticStore{"Go", "Rust", "Terraform"}})

	list := decodeBody[map[string]any](t, doRequest(s, http.MethodGet, "/vocabulary", nil))
	assert.Equal(t, float64(2), list["count"])
	assert.Equal(t, float64(3), list["max_gram"])

	reload := doRequest(s, http.MethodPost, "/vocabulary/reload", nil)
	require.Equal(t, http.StatusOK, reload.Code)
	assert.Equal(t, float64(3), decodeBody[map[string]any](t, reload)["count"])
	assert.Equal(t, 3, s.vocabulary.Size())
}

func TestVocabularyReload_NoStore(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{})

	rec := doRequest(s, http.MethodPost, "/vocabulary/reload", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, noEntities(), Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/extract", Method: "POST", Limit: 1, Window: time.Minute, Burst: 1},
		},
	}})

	first := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Python"})
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := doRequest(s, http.MethodPost, "/extract", types.ExtractRequest{Text: "Python"})
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, second)["error"])

	health := doRequest(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	var stopped bool
	s := newTestServer(t, noEntities(), Config{Port: 0, OnShutdown: []func(){func() { stopped = true }}})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, stopped)
}
