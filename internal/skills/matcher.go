package skills

import (
	"sort"
	"strings"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// Each exported matcher loads the snapshot once and passes it down, so a
// single call never mixes two vocabularies.

// MatchKnownSkills returns the display names of every vocabulary skill whose
// normalized form occurs anywhere in the normalized text. This is a raw
// substring scan, so a skill can match across word boundaries.
func (v *Vocabulary) MatchKnownSkills(text string) []string {
	return v.load().knownSkills(text)
}

// MatchWithNGrams looks up every run of 1 to maxGram consecutive tokens of
// the normalized text in the vocabulary and returns the display names found.
// Values of maxGram below 1 select the vocabulary's configured length.
func (v *Vocabulary) MatchWithNGrams(text string, maxGram int) []string {
	if maxGram < 1 {
		maxGram = v.MaxGram()
	}
	return v.load().ngrams(text, maxGram)
}

// MatchSmart returns the sorted union of substring and n-gram matches.
func (v *Vocabulary) MatchSmart(text string) []string {
	return v.load().smart(text, v.MaxGram())
}

// MatchSkills reconciles NER skill candidates with vocabulary matches found
// in resumeText. Candidates keep their NER provenance; vocabulary hits not
// already seen (case-insensitively) are added with the ngram source. The
// result is sorted by skill name.
func (v *Vocabulary) MatchSkills(resumeText string, nerSkills []string) []types.MatchedSkill {
	return v.MatchSkillsWithGram(resumeText, nerSkills, v.MaxGram())
}

// MatchSkillsWithGram is MatchSkills with an explicit n-gram length.
func (v *Vocabulary) MatchSkillsWithGram(resumeText string, nerSkills []string, maxGram int) []types.MatchedSkill {
	if maxGram < 1 {
		maxGram = v.MaxGram()
	}

	seen := make(map[string]bool)
	matched := []types.MatchedSkill{}
	add := func(skill string, source types.SkillSource) {
		key := strings.ToLower(skill)
		if seen[key] {
			return
		}
		seen[key] = true
		matched = append(matched, types.MatchedSkill{Skill: skill, Source: source})
	}

	for _, candidate := range nerSkills {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		add(candidate, types.SkillSourceNER)
	}
	for _, name := range v.load().smart(resumeText, maxGram) {
		add(name, types.SkillSourceNGram)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Skill < matched[j].Skill
	})
	return matched
}

func (s *snapshot) knownSkills(text string) []string {
	found := []string{}
	if s == nil {
		return found
	}
	normalized := Normalize(text)
	if normalized == "" {
		return found
	}
	for _, key := range s.keys {
		name := s.display[key]
		if strings.Contains(normalized, key) && IsValidSkillName(name) {
			found = append(found, name)
		}
	}
	return found
}

func (s *snapshot) ngrams(text string, maxGram int) []string {
	found := []string{}
	if s == nil {
		return found
	}
	tokens := strings.Fields(Normalize(text))
	seen := make(map[string]bool)
	for n := 1; n <= maxGram; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			name, ok := s.display[strings.Join(tokens[i:i+n], " ")]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			found = append(found, name)
		}
	}
	return found
}

func (s *snapshot) smart(text string, maxGram int) []string {
	union := make(map[string]bool)
	for _, name := range s.knownSkills(text) {
		union[name] = true
	}
	for _, name := range s.ngrams(text, maxGram) {
		union[name] = true
	}

	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
