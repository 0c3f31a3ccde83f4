package chunking

import (
	"slices"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
		want    []string
	}{
		{
			name:    "empty text",
			text:    "",
			maxSize: 10,
			want:    nil,
		},
		{
			name:    "whitespace only",
			text:    "   \n\t ",
			maxSize: 10,
			want:    nil,
		},
		{
			name:    "fits in one chunk",
			text:    "  Go developer  ",
			maxSize: 100,
			want:    []string{"Go developer"},
		},
		{
			name:    "cuts at last space",
			text:    "hello world foo",
			maxSize: 11,
			want:    []string{"hello world", "foo"},
		},
		{
			name:    "forced cut without spaces",
			text:    "abcdefghij",
			maxSize: 4,
			want:    []string{"abcd", "efgh", "ij"},
		},
		{
			name:    "space at window start is not a break point",
			text:    "a bbbbbb",
			maxSize: 3,
			want:    []string{"a", "bb", "bbb", "b"},
		},
		{
			name:    "counts characters not bytes",
			text:    "héllo wörld",
			maxSize: 6,
			want:    []string{"héllo", "wörld"},
		},
		{
			name:    "non-positive size behaves as one",
			text:    "ab",
			maxSize: 0,
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Chunk(tt.text, tt.maxSize))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpans_Offsets(t *testing.T) {
	spans := Collect("hello world foo", 11)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Text: "hello world", Start: 0}, spans[0])
	assert.Equal(t, Span{Text: "foo", Start: 12}, spans[1])
	assert.Equal(t, 15, spans[1].End())

	spans = Collect("héllo wörld", 6)
	require.Len(t, spans, 2)
	assert.Equal(t, 6, spans[1].Start)
}

func TestSpans_CoverageAndSizeBound(t *testing.T) {
	texts := []string{
		"Senior software engineer with ten years of experience in Go, Python and Kubernetes.",
		"Supercalifragilisticexpialidocious is a long word without spaces inside",
		" leading and trailing   spaces  survive  chunking ",
		"naïve café résumé with accents and C# and C++",
	}

	for _, text := range texts {
		for maxSize := 1; maxSize <= 30; maxSize++ {
			runes := []rune(text)
			pos := 0
			for _, span := range Collect(text, maxSize) {
				assert.LessOrEqual(t, len([]rune(span.Text)), maxSize)
				assert.GreaterOrEqual(t, span.Start, pos, "chunks must not overlap")

				// Anything skipped between chunks must be whitespace.
				for _, r := range runes[pos:span.Start] {
					assert.True(t, unicode.IsSpace(r))
				}
				assert.Equal(t, span.Text, string(runes[span.Start:span.End()]))
				pos = span.End()
			}
			for _, r := range runes[pos:] {
				assert.True(t, unicode.IsSpace(r))
			}
		}
	}
}

func TestChunk_RejoinsSingleSpacedText(t *testing.T) {
	text := "Built data pipelines in Go and Python for analytics teams"
	chunks := slices.Collect(Chunk(text, 16))
	assert.Equal(t, text, strings.Join(chunks, " "))
}

func TestChunk_Restartable(t *testing.T) {
	seq := Chunk("one two three four five", 8)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestChunk_StopsEarly(t *testing.T) {
	var got []string
	for chunk := range Chunk("one two three four five", 4) {
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, got)
}
