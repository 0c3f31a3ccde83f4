// Package ner talks to the named-entity-recognition model that tags resume
// text with token-level entity predictions.
package ner

import (
	"context"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// Recognizer returns token predictions for text. Offsets in the result are
// relative to text. An empty result is valid.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]types.RawEntity, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, text string) ([]types.RawEntity, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, text string) ([]types.RawEntity, error) {
	return f(ctx, text)
}
