// Package chunking splits long resume text into bounded segments for the NER model.
package chunking

import (
	"iter"
	"unicode"
)

// DefaultMaxSize is the chunk size used when none is configured.
const DefaultMaxSize = 1000

// Span is a trimmed chunk together with the character offset of its first
// character in the full text. Offsets and lengths count runes.
type Span struct {
	Text  string
	Start int
}

// End returns the offset just past the last character of the span.
func (s Span) End() int {
	return s.Start + len([]rune(s.Text))
}

// Chunk returns a lazy sequence of trimmed, non-empty chunks of at most
// maxSize characters. Whitespace-only input yields nothing.
func Chunk(text string, maxSize int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for span := range Spans(text, maxSize) {
			if !yield(span.Text) {
				return
			}
		}
	}
}

// Spans is like Chunk but also reports where each chunk starts in text.
//
// A window ends at offset+maxSize. When the window does not reach the end of
// the text, the cut moves back to the last space at an index greater than
// offset; without one the cut is forced at offset+maxSize.
func Spans(text string, maxSize int) iter.Seq[Span] {
	if maxSize < 1 {
		maxSize = 1
	}
	return func(yield func(Span) bool) {
		runes := []rune(text)
		n := len(runes)
		for offset := 0; offset < n; {
			cut := breakPoint(runes, offset, maxSize)
			if span, ok := trimSpan(runes, offset, cut); ok {
				if !yield(span) {
					return
				}
			}
			offset = cut
		}
	}
}

func breakPoint(runes []rune, offset, maxSize int) int {
	end := offset + maxSize
	if end >= len(runes) {
		return len(runes)
	}
	for i := end; i > offset; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}

func trimSpan(runes []rune, from, to int) (Span, bool) {
	for from < to && unicode.IsSpace(runes[from]) {
		from++
	}
	for to > from && unicode.IsSpace(runes[to-1]) {
		to--
	}
	if from == to {
		return Span{}, false
	}
	return Span{Text: string(runes[from:to]), Start: from}, true
}

// Collect materializes a chunk sequence.
func Collect(text string, maxSize int) []Span {
	var spans []Span
	for span := range Spans(text, maxSize) {
		spans = append(spans, span)
	}
	return spans
}
