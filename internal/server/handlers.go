package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/KhymNad/resume-matcher-api/internal/db"
	"github.com/KhymNad/resume-matcher-api/internal/ingestion"
	"github.com/KhymNad/resume-matcher-api/internal/pipeline"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Message: "request body is empty"}
		}
		return &ErrValidation{Message: "Invalid JSON body"}
	}
	return nil
}

// resolveText returns the resume text for req, fetching and cleaning the page
// when a URL is given.
func resolveText(ctx context.Context, req *types.ExtractRequest) (string, error) {
	if req.URL == "" {
		if strings.TrimSpace(req.Text) == "" {
			return "", &ErrValidation{Field: "text", Message: "must not be blank"}
		}
		return req.Text, nil
	}
	text, meta, err := ingestion.IngestFromURL(ctx, req.URL, ingestion.DefaultCleanOptions())
	if err != nil {
		return "", err
	}
	slog.Debug("resume page ingested",
		slog.String("url", req.URL),
		slog.Int("characters", meta.Characters),
	)
	return text, nil
}

func (s *Server) minConfidence(req *types.ExtractRequest) float64 {
	if req.MinConfidence != nil {
		return *req.MinConfidence
	}
	return s.pipeline.Options().MinConfidence
}

// save stores the result when requested.
func (s *Server) save(ctx context.Context, req *types.ExtractRequest, result *pipeline.Result) error {
	if !req.Save {
		return nil
	}
	if s.extractions == nil {
		return &ErrUnavailable{Feature: "extraction storage"}
	}
	record := db.NewExtraction(result.Response(), req.URL, result.TagMapping)
	if err := s.extractions.SaveExtraction(ctx, record); err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}
	return nil
}

// handleExtract runs the full pipeline on a resume.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	text, err := resolveText(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.pipeline.RunWithConfidence(r.Context(), text, s.minConfidence(&req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.save(r.Context(), &req, result); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result.Response())
}

// handleExtractStream runs the pipeline and streams each step over SSE.
func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := resolveText(r.Context(), &req)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	result, err := s.pipeline.RunWithProgress(r.Context(), text, s.minConfidence(&req), func(ev pipeline.ProgressEvent) {
		if werr := sse.WriteEvent("step", ev); werr != nil {
			slog.Debug("sse write failed", slog.Any("error", werr))
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	if err := s.save(r.Context(), &req, result); err != nil {
		sse.WriteError(err.Error())
		return
	}

	if err := sse.WriteEvent("result", result.Response()); err != nil {
		slog.Debug("sse write failed", slog.Any("error", err))
		return
	}
	sse.WriteComplete(result.ID.String(), "completed")
}

// handleMatchSkills reconciles caller-provided NER skills against the
// vocabulary without calling the model.
func (s *Server) handleMatchSkills(w http.ResponseWriter, r *http.Request) {
	var req types.MatchSkillsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	maxGram := req.MaxGram
	if maxGram == 0 {
		maxGram = s.vocabulary.MaxGram()
	}
	matched := s.vocabulary.MatchSkillsWithGram(req.Text, req.NERSkills, maxGram)
	if matched == nil {
		matched = []types.MatchedSkill{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skills": matched,
		"count":  len(matched),
	})
}

// handleListVocabulary returns the loaded skill names.
func (s *Server) handleListVocabulary(w http.ResponseWriter, _ *http.Request) {
	names := s.vocabulary.Names()
	if names == nil {
		names = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skills":   names,
		"count":    len(names),
		"loaded":   s.vocabulary.Loaded(),
		"max_gram": s.vocabulary.MaxGram(),
	})
}

// handleReloadVocabulary reloads the vocabulary from the configured store.
func (s *Server) handleReloadVocabulary(w http.ResponseWriter, r *http.Request) {
	if s.skillStore == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "skill store"})
		return
	}
	if err := s.vocabulary.Load(r.Context(), s.skillStore); err != nil {
		s.writeError(w, r, err)
		return
	}
	slog.Info("vocabulary reloaded", slog.Int("size", s.vocabulary.Size()))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"count":  s.vocabulary.Size(),
	})
}

// handleGetExtraction returns a stored extraction by ID.
func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	if s.extractions == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "extraction storage"})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	record, err := s.extractions.GetExtraction(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if record == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "extraction", ID: idStr})
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}
