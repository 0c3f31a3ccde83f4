package extraction

import (
	"strings"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// SimplifyTag strips BIO prefixes ("B-", "I-") from a raw model tag.
// Prefixes are matched case-sensitively and removed until none remain.
func SimplifyTag(tag string) string {
	for {
		switch {
		case strings.HasPrefix(tag, "B-"):
			tag = tag[2:]
		case strings.HasPrefix(tag, "I-"):
			tag = tag[2:]
		default:
			return tag
		}
	}
}

// Merge joins runs of adjacent tokens that share a simplified tag.
// Tokens must be sorted by Start. Two tokens are joined only when the second
// starts exactly where the first ends; texts are concatenated without a
// separator and the merged confidence is the minimum of the members.
func Merge(sorted []types.RawEntity) []types.Entity {
	if len(sorted) == 0 {
		return []types.Entity{}
	}

	merged := make([]types.Entity, 0, len(sorted))
	current := fromRaw(sorted[0])
	currentTag := SimplifyTag(current.Tag)

	for _, next := range sorted[1:] {
		nextTag := SimplifyTag(next.Tag)
		if nextTag == currentTag && next.Start == current.End {
			current.Text += next.Text
			current.End = next.End
			current.Confidence = min(current.Confidence, next.Confidence)
			continue
		}
		merged = append(merged, current)
		current = fromRaw(next)
		currentTag = nextTag
	}

	return append(merged, current)
}

func fromRaw(e types.RawEntity) types.Entity {
	return types.Entity{
		Tag:        e.Tag,
		Text:       e.Text,
		Confidence: e.Confidence,
		Start:      e.Start,
		End:        e.End,
	}
}
