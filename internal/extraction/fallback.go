package extraction

import (
	"regexp"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

var educationKeywords = regexp.MustCompile(`(?i)(Bachelor|Master|B\.Sc|M\.Sc|University|College|Diploma)`)

// FillMissingEducation populates the Education category from keyword matches
// in resumeText when the model found no education entities. Matches are kept
// as they appear in the text, deduplicated in order of first appearance.
// It reports whether the map was changed; a non-empty Education list is never
// replaced.
func FillMissingEducation(resumeText string, categories types.CategoryMap) bool {
	if categories == nil || len(categories[types.CategoryEducation]) > 0 {
		return false
	}

	matches := educationKeywords.FindAllString(resumeText, -1)
	if len(matches) == 0 {
		return false
	}

	seen := make(map[string]bool, len(matches))
	found := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		found = append(found, m)
	}
	categories[types.CategoryEducation] = found
	return true
}
