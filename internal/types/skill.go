package types

// SkillSource records which matching strategy produced a skill.
type SkillSource string

const (
	SkillSourceNER       SkillSource = "NER"
	SkillSourceSubstring SkillSource = "substring"
	SkillSourceNGram     SkillSource = "ngram"
)

// MatchedSkill is one reconciled skill with its provenance.
// Score is set only when specificity scoring ran.
type MatchedSkill struct {
	Skill  string      `json:"skill"`
	Source SkillSource `json:"source"`
	Score  *float64    `json:"score,omitempty"`
}
