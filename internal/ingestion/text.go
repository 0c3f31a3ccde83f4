// Package ingestion turns resume files and pages into the flat text the
// extraction pipeline reads.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

// CleanOptions controls optional cleaning passes.
type CleanOptions struct {
	// SplitCamelCase inserts a space where a lowercase letter is directly
	// followed by an uppercase one ("DataEngineer" -> "Data Engineer").
	SplitCamelCase bool
	// SpaceAfterPunctuation inserts a space after . , : ; ! ? when the next
	// character is not whitespace.
	SpaceAfterPunctuation bool
}

// DefaultCleanOptions enables every pass.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{SplitCamelCase: true, SpaceAfterPunctuation: true}
}

var (
	hyphenBreakRe = regexp.MustCompile(`(\w+)-\n(\w+)`)
	listMarkerRe  = regexp.MustCompile(`(?m)^[ \t]*[-*•●◦◆▶➤►★▪]+[ \t]+`)
	bulletGlyphRe = regexp.MustCompile(`[•●◦◆▶➤►★▪]`)
	nonASCIIRe    = regexp.MustCompile(`[^\x00-\x7F]+`)
	camelCaseRe   = regexp.MustCompile(`([a-z])([A-Z])`)
	ruleRe        = regexp.MustCompile(`[-=]{2,}`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	typographyReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-",
	)
)

// CleanResumeText flattens extracted resume text into a single normalized
// line. Steps run in order: line-ending normalization, joining words split by
// a hyphenated line break, typographic quote and dash replacement, list
// marker normalization, bullet glyph and non-ASCII removal, the optional
// camelCase and punctuation passes, horizontal rule removal and whitespace
// collapsing.
func CleanResumeText(text string, opts CleanOptions) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	text = typographyReplacer.Replace(text)
	text = listMarkerRe.ReplaceAllString(text, "- ")
	text = bulletGlyphRe.ReplaceAllString(text, " ")
	text = nonASCIIRe.ReplaceAllString(text, " ")

	if opts.SplitCamelCase {
		text = camelCaseRe.ReplaceAllString(text, "$1 $2")
	}
	if opts.SpaceAfterPunctuation {
		text = spaceAfterPunctuation(text)
	}

	text = ruleRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func spaceAfterPunctuation(text string) string {
	runes := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/16)
	for i, r := range runes {
		sb.WriteRune(r)
		if strings.ContainsRune(".,:;!?", r) && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
