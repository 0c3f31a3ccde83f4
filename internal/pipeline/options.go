package pipeline

import (
	"fmt"
	"math"

	"github.com/KhymNad/resume-matcher-api/internal/chunking"
	"github.com/KhymNad/resume-matcher-api/internal/extraction"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
)

// OffsetMode selects how chunk-relative entity offsets become
// document-relative.
type OffsetMode string

const (
	// OffsetTracked uses the chunk start recorded while chunking.
	OffsetTracked OffsetMode = "tracked"
	// OffsetSearch locates each chunk by its first literal occurrence in the
	// document. Repeated chunk text maps to the earliest occurrence.
	OffsetSearch OffsetMode = "search"
)

// DefaultConcurrency bounds parallel NER calls per request.
const DefaultConcurrency = 4

// Options configures a Pipeline.
type Options struct {
	// MinConfidence drops merged entities scored below it. Required.
	MinConfidence float64
	// ChunkSize is the maximum characters per NER call.
	ChunkSize int
	// MaxGram is the longest vocabulary n-gram looked up.
	MaxGram int
	// TagMapping maps model tags to categories.
	TagMapping extraction.TagMapping
	// OffsetMode selects offset remapping.
	OffsetMode OffsetMode
	// Concurrency bounds parallel NER calls.
	Concurrency int
	// Scorer optionally rates matched skills.
	Scorer skills.Scorer
	// OnProgress receives step updates.
	OnProgress ProgressCallback
}

// Validate checks option values.
func (o Options) Validate() error {
	if math.IsNaN(o.MinConfidence) || o.MinConfidence < 0 || o.MinConfidence > 1 {
		return fmt.Errorf("pipeline: min confidence must be within [0, 1], got %v", o.MinConfidence)
	}
	if o.ChunkSize < 0 {
		return fmt.Errorf("pipeline: chunk size must be non-negative")
	}
	if o.MaxGram < 0 {
		return fmt.Errorf("pipeline: max gram must be non-negative")
	}
	switch o.OffsetMode {
	case "", OffsetTracked, OffsetSearch:
	default:
		return fmt.Errorf("pipeline: unknown offset mode %q", o.OffsetMode)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.ChunkSize == 0 {
		o.ChunkSize = chunking.DefaultMaxSize
	}
	if o.MaxGram == 0 {
		o.MaxGram = skills.DefaultMaxGram
	}
	if o.TagMapping.Version == "" {
		o.TagMapping = extraction.DefaultTagMapping
	}
	if o.OffsetMode == "" {
		o.OffsetMode = OffsetTracked
	}
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}
