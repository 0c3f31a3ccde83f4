package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	var gotAgent, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Jane Doe</h1></body></html>"))
	}))
	defer server.Close()

	client := NewClient(Options{Headers: map[string]string{"Authorization": "Bearer x"}})
	page, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, page.URL)
	assert.Contains(t, page.Body, "<h1>Jane Doe</h1>")
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.True(t, page.IsHTML())
	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, "Bearer x", gotAuth)
}

func TestClientGet_InvalidURL(t *testing.T) {
	client := NewClient(Options{})
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/cv", "http://"} {
		_, err := client.Get(context.Background(), raw)

		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, raw)
		assert.Equal(t, "invalid URL", fetchErr.Message)
	}
}

func TestClientGet_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	page, err := NewClient(Options{}).Get(context.Background(), server.URL)
	require.Error(t, err)
	require.NotNil(t, page)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestClientGet_TruncatesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	page, err := NewClient(Options{MaxBytes: 4}).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "0123", page.Body)
}

func TestMainText_ResumeContainer(t *testing.T) {
	html := `<html><body>
		<nav>Home | Blog</nav>
		<header>Jane's site</header>
		<div class="resume">
			<h1>Jane Doe</h1>
			<p>Platform engineer<br>Berlin</p>
			<ul><li>Go</li><li>Kubernetes</li></ul>
		</div>
		<footer>Copyright</footer>
	</body></html>`

	text, err := MainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nPlatform engineer\nBerlin\n- Go\n- Kubernetes", text)
}

func TestMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><script>var x = 1;</script><p>Data   scientist</p></body></html>`

	text, err := MainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Data scientist", text)
}

func TestMainText_ExtraNoise(t *testing.T) {
	html := `<html><body><main><p>Go developer</p><p class="hire-me">Hire me!</p></main></body></html>`

	text, err := MainText(html, ResumePageSelectors(), ".hire-me")
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)
}

func TestResumePageSelectors(t *testing.T) {
	selectors := ResumePageSelectors()
	assert.Equal(t, ".resume", selectors[0])
	assert.Contains(t, selectors, "main")
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"", true},
		{"text/html; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"text/plain", false},
		{"application/json", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHTML(tt.contentType), tt.contentType)
	}
}

func TestError(t *testing.T) {
	err := &Error{URL: "https://example.com", Message: "request failed", Cause: context.DeadlineExceeded}
	assert.Equal(t, "fetch https://example.com: request failed: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
