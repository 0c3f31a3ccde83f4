// Package extraction turns raw NER token predictions into a cleaned,
// categorized entity map.
package extraction

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// Remap returns copies of entities with offsets shifted from chunk-relative to
// document-relative. The chunk is located by its first literal occurrence in
// fullText, so repeated chunk text always maps to the earliest occurrence.
func Remap(entities []types.RawEntity, fullText, chunkText string) ([]types.RawEntity, error) {
	idx := strings.Index(fullText, chunkText)
	if idx < 0 {
		return nil, &OffsetError{Chunk: chunkText, Message: "chunk text not found in document"}
	}
	return Shift(entities, utf8.RuneCountInString(fullText[:idx])), nil
}

// Shift returns copies of entities with offset added to Start and End.
func Shift(entities []types.RawEntity, offset int) []types.RawEntity {
	out := make([]types.RawEntity, len(entities))
	for i, e := range entities {
		e.Start += offset
		e.End += offset
		out[i] = e
	}
	return out
}

// SortByStart orders entities by document position, keeping the original
// order for equal starts.
func SortByStart(entities []types.RawEntity) {
	slices.SortStableFunc(entities, func(a, b types.RawEntity) int {
		return a.Start - b.Start
	})
}
