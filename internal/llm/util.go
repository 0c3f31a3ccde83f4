package llm

import (
	"fmt"
	"strings"
)

// CleanJSONBlock removes a surrounding markdown code fence from a model
// response, including an optional language identifier line.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		lang := text[:idx]
		if len(lang) < 20 && !strings.ContainsAny(lang, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ExtractJSONArray returns the outermost [...] section of text.
func ExtractJSONArray(text string) (string, error) {
	text = CleanJSONBlock(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no valid JSON array found in response")
	}
	return text[start : end+1], nil
}
