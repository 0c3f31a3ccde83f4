package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KhymNad/resume-matcher-api/internal/llm"
	"github.com/KhymNad/resume-matcher-api/internal/prompts"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// defaultSpecificity is assigned to skills the model did not rate.
const defaultSpecificity = 0.5

// Scorer assigns a specificity score to matched skills.
type Scorer interface {
	Score(ctx context.Context, matched []types.MatchedSkill) ([]types.MatchedSkill, error)
}

// LLMScorer rates skill specificity with an LLM.
type LLMScorer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMScorer returns a scorer that uses the lite model tier of client.
func NewLLMScorer(client llm.Client) *LLMScorer {
	return &LLMScorer{client: client, tier: llm.TierLite}
}

type specificityResult struct {
	SkillName   string  `json:"skill_name"`
	Specificity float64 `json:"specificity"`
}

// Score returns a copy of matched with Score set on every entry.
// Specificity ranges from 0.0 (generic soft skill) to 1.0 (concrete tool).
func (s *LLMScorer) Score(ctx context.Context, matched []types.MatchedSkill) ([]types.MatchedSkill, error) {
	if len(matched) == 0 {
		return matched, nil
	}

	names := make([]string, len(matched))
	for i, m := range matched {
		names[i] = m.Skill
	}

	req, err := specificityRequest(names, s.tier)
	if err != nil {
		return nil, err
	}
	response, err := s.client.GenerateJSON(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	scores, err := parseSpecificityResponse(response, names)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	out := make([]types.MatchedSkill, len(matched))
	for i, m := range matched {
		score := scores[scoreKey(m.Skill)]
		m.Score = &score
		out[i] = m
	}
	return out, nil
}

// ScoreOrKeep runs scorer and falls back to the unscored list on failure.
// A nil scorer returns matched unchanged.
func ScoreOrKeep(ctx context.Context, scorer Scorer, matched []types.MatchedSkill) []types.MatchedSkill {
	if scorer == nil || len(matched) == 0 {
		return matched
	}
	scored, err := scorer.Score(ctx, matched)
	if err != nil {
		slog.Warn("skill scoring failed, returning unscored skills", "error", err, "skills", len(matched))
		return matched
	}
	return scored
}

func specificityRequest(names []string, tier llm.ModelTier) (llm.Request, error) {
	tmpl, err := prompts.Skill("specificity")
	if err != nil {
		return llm.Request{}, err
	}
	p, err := tmpl.Render(map[string]any{"Skills": names})
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{System: p.System, Prompt: p.User, Tier: tier}, nil
}

func parseSpecificityResponse(response string, names []string) (map[string]float64, error) {
	array, err := llm.ExtractJSONArray(response)
	if err != nil {
		return nil, err
	}

	var results []specificityResult
	if err := json.Unmarshal([]byte(array), &results); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}

	scores := make(map[string]float64, len(names))
	for _, r := range results {
		scores[scoreKey(r.SkillName)] = min(max(r.Specificity, 0), 1)
	}
	for _, name := range names {
		if _, ok := scores[scoreKey(name)]; !ok {
			scores[scoreKey(name)] = defaultSpecificity
		}
	}
	return scores, nil
}

func scoreKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
