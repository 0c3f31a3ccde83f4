// Package skills reconciles NER skill candidates with a curated skill
// vocabulary and optionally scores how specific each skill is.
package skills

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
)

// DefaultMaxGram is the longest n-gram looked up when none is configured.
const DefaultMaxGram = 3

// Vocabulary holds the known-skill set. Reads go through an immutable
// snapshot that Load replaces atomically, so a match running concurrently
// with a reload sees either the old or the new vocabulary in full.
// The zero value is an empty, unloaded vocabulary.
type Vocabulary struct {
	current atomic.Pointer[snapshot]
	maxGram int
}

type snapshot struct {
	// display maps a normalized skill to the first display name seen for it.
	display map[string]string
	// keys are the normalized skills in sorted order.
	keys []string
}

// NewVocabulary returns an unloaded vocabulary that looks up n-grams of up to
// maxGram tokens. Values below 1 select DefaultMaxGram.
func NewVocabulary(maxGram int) *Vocabulary {
	if maxGram < 1 {
		maxGram = DefaultMaxGram
	}
	return &Vocabulary{maxGram: maxGram}
}

// Load reads all skill names from store and swaps them in as the new
// vocabulary. On error the previous vocabulary stays in place.
func (v *Vocabulary) Load(ctx context.Context, store Store) error {
	names, err := store.LoadSkillNames(ctx)
	if err != nil {
		return &StoreError{Message: "failed to load skill names", Cause: err}
	}
	v.Replace(names)
	slog.Info("skill vocabulary loaded", "skills", v.Size())
	return nil
}

// Replace swaps in a vocabulary built from display names.
func (v *Vocabulary) Replace(names []string) {
	v.current.Store(newSnapshot(names))
}

func newSnapshot(names []string) *snapshot {
	s := &snapshot{display: make(map[string]string, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := Normalize(name)
		if key == "" {
			continue
		}
		if _, exists := s.display[key]; exists {
			continue
		}
		s.display[key] = name
		s.keys = append(s.keys, key)
	}
	sort.Strings(s.keys)
	return s
}

// Loaded reports whether a vocabulary has been loaded.
func (v *Vocabulary) Loaded() bool {
	return v.current.Load() != nil
}

// Size returns the number of distinct normalized skills.
func (v *Vocabulary) Size() int {
	s := v.current.Load()
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Names returns the display names in normalized-key order.
func (v *Vocabulary) Names() []string {
	s := v.current.Load()
	if s == nil {
		return []string{}
	}
	names := make([]string, len(s.keys))
	for i, key := range s.keys {
		names[i] = s.display[key]
	}
	return names
}

// MaxGram returns the configured n-gram length.
func (v *Vocabulary) MaxGram() int {
	if v.maxGram < 1 {
		return DefaultMaxGram
	}
	return v.maxGram
}

func (v *Vocabulary) load() *snapshot {
	s := v.current.Load()
	if s == nil {
		slog.Debug("skill vocabulary not loaded, skipping vocabulary match")
	}
	return s
}
