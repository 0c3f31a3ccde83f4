// Package pipeline runs the entity reconciliation steps for one resume:
// chunking, NER, offset remapping, merging, categorizing, skill matching and
// the education fallback.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KhymNad/resume-matcher-api/internal/chunking"
	"github.com/KhymNad/resume-matcher-api/internal/extraction"
	"github.com/KhymNad/resume-matcher-api/internal/ner"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Result is the reconciled output for one resume.
type Result struct {
	ID         uuid.UUID            `json:"id"`
	Categories types.CategoryMap    `json:"categories"`
	Skills     []types.MatchedSkill `json:"skills"`
	// Entities are the merged entities with document-relative offsets,
	// before confidence filtering.
	Entities    []types.Entity `json:"entities"`
	ChunkCount  int            `json:"chunk_count"`
	EntityCount int            `json:"entity_count"`
	TagMapping  string         `json:"tag_mapping"`
	Duration    time.Duration  `json:"duration_ns"`
}

// Response converts the result into the API response shape.
func (r *Result) Response() types.ExtractResponse {
	return types.ExtractResponse{
		ID:          r.ID,
		Categories:  r.Categories,
		Skills:      r.Skills,
		ChunkCount:  r.ChunkCount,
		EntityCount: r.EntityCount,
	}
}

// Pipeline holds the collaborators shared by every run.
type Pipeline struct {
	recognizer ner.Recognizer
	vocabulary *skills.Vocabulary
	opts       Options
}

// New creates a pipeline. A nil vocabulary behaves as an unloaded one.
func New(recognizer ner.Recognizer, vocabulary *skills.Vocabulary, opts Options) (*Pipeline, error) {
	if recognizer == nil {
		return nil, fmt.Errorf("pipeline: recognizer is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if vocabulary == nil {
		vocabulary = skills.NewVocabulary(opts.MaxGram)
	}
	return &Pipeline{recognizer: recognizer, vocabulary: vocabulary, opts: opts}, nil
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Vocabulary returns the skill vocabulary used for matching.
func (p *Pipeline) Vocabulary() *skills.Vocabulary {
	return p.vocabulary
}

// Run extracts and reconciles entities from resumeText. Any NER or offset
// failure aborts the run; an empty NER result does not.
func (p *Pipeline) Run(ctx context.Context, resumeText string) (*Result, error) {
	return p.RunWithConfidence(ctx, resumeText, p.opts.MinConfidence)
}

// RunWithConfidence is Run with a per-call confidence threshold.
func (p *Pipeline) RunWithConfidence(ctx context.Context, resumeText string, minConfidence float64) (*Result, error) {
	return p.RunWithProgress(ctx, resumeText, minConfidence, p.opts.OnProgress)
}

// RunWithProgress is RunWithConfidence reporting steps to onProgress instead
// of the pipeline-wide callback. A nil onProgress disables reporting.
func (p *Pipeline) RunWithProgress(ctx context.Context, resumeText string, minConfidence float64, onProgress ProgressCallback) (*Result, error) {
	started := time.Now()
	emit := func(step, message string, content any) {
		if onProgress != nil {
			onProgress(ProgressEvent{Step: step, Message: message, Content: content})
		}
	}
	opts := p.opts
	opts.MinConfidence = minConfidence
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	spans := chunking.Collect(resumeText, opts.ChunkSize)
	emit("chunk", fmt.Sprintf("Split resume into %d chunk(s)", len(spans)), nil)

	raw, err := p.recognize(ctx, resumeText, spans)
	if err != nil {
		return nil, err
	}
	emit("recognize", fmt.Sprintf("Received %d token prediction(s)", len(raw)), nil)

	extraction.SortByStart(raw)
	merged := extraction.Merge(raw)
	emit("merge", fmt.Sprintf("Merged into %d entities", len(merged)), nil)

	categories := extraction.GroupAndClean(merged, opts.MinConfidence, opts.TagMapping)
	emit("group", fmt.Sprintf("Grouped into %d categories", len(categories)), categories)

	matched := p.vocabulary.MatchSkillsWithGram(resumeText, categories[types.CategorySkills], opts.MaxGram)
	matched = skills.ScoreOrKeep(ctx, opts.Scorer, matched)
	if len(matched) > 0 {
		names := make([]string, len(matched))
		for i, m := range matched {
			names[i] = m.Skill
		}
		categories[types.CategorySkills] = names
	}
	emit("skills", fmt.Sprintf("Matched %d skills", len(matched)), matched)

	if extraction.FillMissingEducation(resumeText, categories) {
		emit("fallback", "Education filled from keyword matches", categories[types.CategoryEducation])
	}

	result := &Result{
		ID:          uuid.New(),
		Categories:  categories,
		Skills:      matched,
		Entities:    merged,
		ChunkCount:  len(spans),
		EntityCount: len(raw),
		TagMapping:  opts.TagMapping.Version,
		Duration:    time.Since(started),
	}
	slog.Info("resume processed",
		slog.String("id", result.ID.String()),
		slog.Int("chunks", result.ChunkCount),
		slog.Int("tokens", result.EntityCount),
		slog.Int("skills", len(result.Skills)),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

// recognize calls the model for every span concurrently and returns the
// predictions in document coordinates. Each chunk's offsets are adjusted with
// its own span before aggregation.
func (p *Pipeline) recognize(ctx context.Context, fullText string, spans []chunking.Span) ([]types.RawEntity, error) {
	perChunk := make([][]types.RawEntity, len(spans))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i, span := range spans {
		g.Go(func() error {
			raw, err := p.recognizer.Recognize(gCtx, span.Text)
			if err != nil {
				return fmt.Errorf("NER failed for chunk %d: %w", i, err)
			}
			adjusted, err := p.adjust(raw, fullText, span)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			perChunk[i] = adjusted
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, entities := range perChunk {
		total += len(entities)
	}
	all := make([]types.RawEntity, 0, total)
	for _, entities := range perChunk {
		all = append(all, entities...)
	}
	return all, nil
}

func (p *Pipeline) adjust(raw []types.RawEntity, fullText string, span chunking.Span) ([]types.RawEntity, error) {
	if p.opts.OffsetMode == OffsetSearch {
		return extraction.Remap(raw, fullText, span.Text)
	}
	return extraction.Shift(raw, span.Start), nil
}
