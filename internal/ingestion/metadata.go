package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"
)

// Metadata describes one ingested resume.
type Metadata struct {
	Source     string    `json:"source"`        // file path or URL
	URL        string    `json:"url,omitempty"` // set for fetched pages
	Format     string    `json:"format"`        // txt, md or html
	IngestedAt time.Time `json:"ingested_at"`
	// Digest is the hex SHA-256 of the cleaned text. Identical resumes
	// ingested from different sources share it.
	Digest     string `json:"digest"`
	Characters int    `json:"characters"` // code points, the unit NER offsets use
	Words      int    `json:"words"`
}

// NewMetadata describes cleaned text read from source.
func NewMetadata(cleaned, source, format string) *Metadata {
	return &Metadata{
		Source:     source,
		Format:     format,
		IngestedAt: time.Now().UTC(),
		Digest:     digest(cleaned),
		Characters: utf8.RuneCountInString(cleaned),
		Words:      len(strings.Fields(cleaned)),
	}
}

func digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
