package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"

	"inkwell/atlas/internal/logger"
)

// Loader reads the plain text of a source. Concurrent loads of the same
// source share one read and the result is cached for the Loader's lifetime.
type Loader struct {
	client *http.Client

	cache   map[Source]string
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client: client,
		cache:  make(map[Source]string),
	}
}

// Load returns the readable text of src. Empty text is ErrEmptyText.
func (l *Loader) Load(ctx context.Context, src Source) (string, error) {
	l.cacheMu.RLock()
	cached, ok := l.cache[src]
	l.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, shared := l.group.Do(string(src), func() (any, error) {
		l.cacheMu.RLock()
		cached, ok := l.cache[src]
		l.cacheMu.RUnlock()
		if ok {
			return cached, nil
		}

		text, err := l.read(ctx, src)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", fmt.Errorf("%s: %w", src, ErrEmptyText)
		}
		l.cacheMu.Lock()
		l.cache[src] = text
		l.cacheMu.Unlock()
		return text, nil
	})
	if shared {
		logger.Debug("Shared source load", "source", src)
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (l *Loader) read(ctx context.Context, src Source) (string, error) {
	if src.IsURL() {
		return l.fetch(ctx, string(src))
	}

	path := string(src)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		abs, _ := filepath.Abs(path)
		return readableText(f, &url.URL{Scheme: "file", Path: abs})
	default:
		return "", fmt.Errorf("%s: %w (want .txt, .md, .html or an http(s) URL)", path, ErrUnsupported)
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return readableText(resp.Body, pageURL)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return string(data), nil
}

// readableText extracts the main article text from an HTML page.
func readableText(r io.Reader, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	var b strings.Builder
	if err := article.RenderText(&b); err != nil {
		return "", fmt.Errorf("failed to render article text: %w", err)
	}
	return b.String(), nil
}
