package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// Extraction is a stored pipeline result.
type Extraction struct {
	ID          uuid.UUID            `json:"id"`
	SourceURL   string               `json:"source_url,omitempty"`
	Categories  types.CategoryMap    `json:"categories"`
	Skills      []types.MatchedSkill `json:"skills"`
	ChunkCount  int                  `json:"chunk_count"`
	EntityCount int                  `json:"entity_count"`
	TagMapping  string               `json:"tag_mapping"`
	CreatedAt   time.Time            `json:"created_at"`
}

// SaveExtraction stores an extraction, replacing any row with the same ID.
func (db *DB) SaveExtraction(ctx context.Context, e *Extraction) error {
	categories, err := json.Marshal(e.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	matched := e.Skills
	if matched == nil {
		matched = []types.MatchedSkill{}
	}
	skillsJSON, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	var sourceURL *string
	if e.SourceURL != "" {
		sourceURL = &e.SourceURL
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO extractions (id, source_url, categories, skills, chunk_count, entity_count, tag_mapping)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   source_url = $2, categories = $3, skills = $4,
		   chunk_count = $5, entity_count = $6, tag_mapping = $7
		 RETURNING created_at`,
		e.ID, sourceURL, categories, skillsJSON, e.ChunkCount, e.EntityCount, e.TagMapping,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save extraction %s: %w", e.ID, err)
	}
	return nil
}

const extractionColumns = `id, source_url, categories, skills, chunk_count, entity_count, tag_mapping, created_at`

// GetExtraction retrieves an extraction by ID. Returns nil when not found.
func (db *DB) GetExtraction(ctx context.Context, id uuid.UUID) (*Extraction, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+extractionColumns+` FROM extractions WHERE id = $1`,
		id,
	)
	e, err := scanExtraction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get extraction %s: %w", id, err)
	}
	return e, nil
}

// ListExtractions returns the most recent extractions, newest first.
func (db *DB) ListExtractions(ctx context.Context, limit int) ([]Extraction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+extractionColumns+` FROM extractions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extractions: %w", err)
	}
	return out, nil
}

func scanExtraction(row pgx.Row) (*Extraction, error) {
	var (
		e          Extraction
		sourceURL  *string
		categories []byte
		skillsJSON []byte
	)
	if err := row.Scan(&e.ID, &sourceURL, &categories, &skillsJSON, &e.ChunkCount, &e.EntityCount, &e.TagMapping, &e.CreatedAt); err != nil {
		return nil, err
	}
	if sourceURL != nil {
		e.SourceURL = *sourceURL
	}
	if err := json.Unmarshal(categories, &e.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	if err := json.Unmarshal(skillsJSON, &e.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	return &e, nil
}

// NewExtraction builds a record from a response.
func NewExtraction(resp types.ExtractResponse, sourceURL, tagMapping string) *Extraction {
	return &Extraction{
		ID:          resp.ID,
		SourceURL:   sourceURL,
		Categories:  resp.Categories,
		Skills:      resp.Skills,
		ChunkCount:  resp.ChunkCount,
		EntityCount: resp.EntityCount,
		TagMapping:  tagMapping,
	}
}

// Response converts the record into the API response shape.
func (e *Extraction) Response() types.ExtractResponse {
	return types.ExtractResponse{
		ID:          e.ID,
		Categories:  e.Categories,
		Skills:      e.Skills,
		ChunkCount:  e.ChunkCount,
		EntityCount: e.EntityCount,
	}
}
