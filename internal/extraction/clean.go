package extraction

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KhymNad/resume-matcher-api/internal/skills"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// subTokenMarker is the WordPiece continuation prefix.
const subTokenMarker = "##"

var bannedSkillWords = map[string]bool{
	"team":       true,
	"work":       true,
	"project":    true,
	"experience": true,
	"management": true,
}

// GroupAndClean filters merged entities by confidence, groups them by
// category and cleans their text. Categories left without values are omitted.
func GroupAndClean(merged []types.Entity, minConfidence float64, mapping TagMapping) types.CategoryMap {
	grouped := make(map[types.Category][]string)
	for _, e := range merged {
		if strings.TrimSpace(e.Tag) == "" || e.Confidence < minConfidence {
			continue
		}
		category := mapping.Categorize(SimplifyTag(e.Tag))
		grouped[category] = append(grouped[category], e.Text)
	}

	result := make(types.CategoryMap, len(grouped))
	for category, texts := range grouped {
		cleaned := cleanAll(texts)
		if category == types.CategorySkills {
			cleaned = NormalizeSkillList(cleaned)
		}
		if len(cleaned) > 0 {
			result[category] = cleaned
		}
	}
	return result
}

func cleanAll(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		word := CleanWord(text)
		if len([]rune(word)) <= 1 || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

// CleanWord strips tokenizer artifacts and noise from an entity's text.
// Sub-token markers and periods are removed, then every character other than
// ASCII letters, digits, '-', '+', '.' and '#' is dropped.
func CleanWord(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, subTokenMarker, "")
	s = strings.ReplaceAll(s, ".", "")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '+', r == '.', r == '#':
			return r
		default:
			return -1
		}
	}, s)
}

// NormalizeSkillList drops short and generic entries, title-cases the rest
// and removes duplicates created by the casing change.
func NormalizeSkillList(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if !skills.IsValidSkillName(entry) || bannedSkillWords[strings.ToLower(entry)] {
			continue
		}
		titled := TitleCase(entry)
		if seen[titled] {
			continue
		}
		seen[titled] = true
		out = append(out, titled)
	}
	return out
}

// TitleCase upper-cases the first letter of each word and lower-cases the
// rest. Words written entirely in upper case are treated as acronyms and kept.
func TitleCase(s string) string {
	caser := cases.Title(language.English)
	words := strings.Split(s, " ")
	for i, word := range words {
		if isAcronym(word) {
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

func isAcronym(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}
