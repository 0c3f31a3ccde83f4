// Package fetch retrieves resume pages over HTTP and reduces their HTML to
// plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBytes caps how much of a response body is read.
	DefaultMaxBytes = 5 << 20
	// DefaultUserAgent identifies the fetcher to resume hosts.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeMatcher/1.0)"
)

// noiseSelector matches page chrome that never carries resume content.
const noiseSelector = "nav, footer, header, script, style, noscript, svg, form, iframe, " +
	"[aria-hidden='true'], .cookie-banner, .share, .social, .sidebar, .ads"

// blockSelector matches elements that end a line of resume text.
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, tr, dt, dd, div, section, blockquote"

// Page is a fetched resume document.
type Page struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
}

// IsHTML reports whether the page should go through HTML text extraction.
func (p *Page) IsHTML() bool {
	return IsHTML(p.ContentType)
}

// Error represents a failed page fetch.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Headers   map[string]string
}

// Client fetches resume pages.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
	headers   map[string]string
}

// NewClient creates a Client for opts.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		headers:   opts.Headers,
	}
}

// Get fetches rawURL. Only http and https URLs are accepted. A non-200
// response returns the page together with an *Error.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: "failed to read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// MainText parses html and returns the text of the first element matching
// one of selectors, falling back to <body>. Page chrome and extraNoise
// matches are removed first. Block elements end a line and list items are
// prefixed with "- " so bullet structure survives for the text cleaner.
func MainText(html string, selectors []string, extraNoise ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()
	if len(extraNoise) > 0 {
		doc.Find(strings.Join(extraNoise, ", ")).Remove()
	}

	var root *goquery.Selection
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			root = sel.First()
			break
		}
	}
	if root == nil {
		root = doc.Find("body")
	}

	root.Find("br").ReplaceWithHtml("\n")
	root.Find("li").PrependHtml("- ")
	root.Find(blockSelector).AppendHtml("\n")

	return joinLines(root.Text()), nil
}

// ResumePageSelectors returns selectors for hosted resume and portfolio
// pages, most specific first.
func ResumePageSelectors() []string {
	return []string{
		".resume",
		"#resume",
		".cv",
		"#cv",
		"[itemtype='http://schema.org/Person']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// IsHTML reports whether a Content-Type header names an HTML document. An
// empty header is treated as HTML.
func IsHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// joinLines trims every line, collapses inner runs of spaces and drops blank
// lines.
func joinLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" && line != "-" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
