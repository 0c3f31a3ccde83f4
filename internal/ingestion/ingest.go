package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KhymNad/resume-matcher-api/internal/fetch"
)

var (
	// ErrUnsupportedFormat is returned for resume files that are not plain text.
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
	// ErrEmptyResume is returned when nothing remains after cleaning.
	ErrEmptyResume = errors.New("resume text is empty")
)

// IngestFromFile reads a .txt or .md resume, cleans it, and returns the
// cleaned text with metadata.
func IngestFromFile(path string, opts CleanOptions) (string, *Metadata, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "txt", "md", "text", "markdown":
	default:
		return "", nil, fmt.Errorf("%w: %q (expected .txt or .md)", ErrUnsupportedFormat, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	cleaned := CleanResumeText(string(content), opts)
	if cleaned == "" {
		return "", nil, ErrEmptyResume
	}
	return cleaned, NewMetadata(cleaned, path, format), nil
}

// IngestFromURL fetches a resume page, extracts its main text, cleans it,
// and returns the cleaned text with metadata. Plain-text responses skip HTML
// extraction.
func IngestFromURL(ctx context.Context, urlStr string, opts CleanOptions) (string, *Metadata, error) {
	page, err := fetch.NewClient(fetch.Options{}).Get(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	slog.Debug("resume page fetched",
		slog.String("url", urlStr),
		slog.Int("bytes", len(page.Body)),
		slog.String("content_type", page.ContentType),
	)

	text := page.Body
	format := "txt"
	if page.IsHTML() {
		format = "html"
		text, err = fetch.MainText(page.Body, fetch.ResumePageSelectors())
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
		}
	}

	cleaned := CleanResumeText(text, opts)
	if cleaned == "" {
		return "", nil, ErrEmptyResume
	}

	metadata := NewMetadata(cleaned, urlStr, format)
	metadata.URL = urlStr
	return cleaned, metadata, nil
}
