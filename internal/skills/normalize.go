package skills

import (
	"strings"
	"unicode"
)

// Normalize lower-cases and trims s, drops every character other than
// letters, digits, whitespace, '+' and '#', and collapses whitespace runs to
// a single space.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '+', r == '#':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// IsValidSkillName reports whether name is long enough to be a skill.
// Names of two characters or fewer are accepted only when they contain an
// upper-case letter, '#' or '+' (R, C#, Go).
func IsValidSkillName(name string) bool {
	if len([]rune(name)) > 2 {
		return true
	}
	return strings.ContainsAny(name, "#+") || strings.IndexFunc(name, unicode.IsUpper) >= 0
}
