package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ExtractRequest is the request body for entity extraction.
type ExtractRequest struct {
	Text          string   `json:"text" validate:"required_without=URL"`
	URL           string   `json:"url,omitempty" validate:"omitempty,url"`
	MinConfidence *float64 `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	Save          bool     `json:"save,omitempty"`
}

// MatchSkillsRequest is the request body for skill reconciliation without NER.
type MatchSkillsRequest struct {
	Text      string   `json:"text" validate:"required"`
	NERSkills []string `json:"ner_skills,omitempty"`
	MaxGram   int      `json:"max_gram,omitempty" validate:"omitempty,min=1,max=6"`
}

// ExtractResponse is the serialized pipeline result.
type ExtractResponse struct {
	ID          uuid.UUID      `json:"id"`
	Categories  CategoryMap    `json:"categories"`
	Skills      []MatchedSkill `json:"skills"`
	ChunkCount  int            `json:"chunk_count"`
	EntityCount int            `json:"entity_count"`
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MatchSkillsRequest using the validator.
func (r *MatchSkillsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
