// Package types provides type definitions for structured data used throughout the resume matcher.
package types

// RawEntity is a single token-level prediction returned by the NER model.
// Start and End are character offsets, relative to the chunk that was sent to
// the model until they are shifted into document coordinates.
type RawEntity struct {
	Tag        string  `json:"tag"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}

// Entity is a run of adjacent RawEntity tokens that share a simplified tag.
// Confidence is the minimum confidence of its members.
type Entity struct {
	Tag        string  `json:"tag"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}
