package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/atlas/internal/db"
	"inkwell/atlas/internal/taxonomy"
	"inkwell/atlas/internal/util"
)

const sampleMetadata = `{
	"title": "Attention Is All You Need",
	"summary": "A transformer for text translation built only on attention.",
	"keywords": [" Transformer ", "BERT", "bert", ""],
	"method_summary": "Stacked self-attention layers",
	"category": "astronomy",
	"author": "Vaswani et al.",
	"conference_journal": "NeurIPS",
	"literature_time": "2017-06-12",
	"datasets": ["WMT 2014"],
	"network_architectures": ["Transformer"],
	"innovation": "Drops recurrence entirely",
	"code_address": "",
	"citation": 90000
}`

// fakeChatServer answers chat-completion requests with the replies in
// order, repeating the last one.
func fakeChatServer(t *testing.T, replies ...string) (*httptest.Server, *atomic.Int32) {
	return statusChatServer(t, nil, replies...)
}

// statusChatServer fails the first len(statuses) requests with those HTTP
// statuses, then answers like fakeChatServer.
func statusChatServer(t *testing.T, statuses []int, replies ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		n := int(calls.Add(1))
		w.Header().Set("Content-Type", "application/json")
		if n <= len(statuses) {
			w.Header().Set("Retry-After-Ms", "10")
			w.WriteHeader(statuses[n-1])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": http.StatusText(statuses[n-1]), "type": "invalid_request_error"},
			})
			return
		}
		reply := replies[min(n-len(statuses), len(replies))-1]
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      fmt.Sprintf("chatcmpl-%d", n),
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeFile(t *testing.T, name, content string) Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return Source(path)
}

func newTestExtractor(t *testing.T, srv *httptest.Server) *OpenAIExtractor {
	t.Helper()
	e, err := NewOpenAIExtractor(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	return e
}

func TestNewOpenAIExtractor_NoAPIKey(t *testing.T) {
	_, err := NewOpenAIExtractor(Config{APIKey: "  "})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestExtract_Success(t *testing.T) {
	srv, calls := fakeChatServer(t, sampleMetadata)
	e := newTestExtractor(t, srv)
	src := writeFile(t, "attention.txt", "We propose the Transformer.")

	meta, err := e.Extract(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Attention Is All You Need", meta.Title)
	assert.Equal(t, []string{"transformer", "bert"}, meta.Keywords)
	assert.Equal(t, string(taxonomy.NLP), meta.Category, "unknown category should be classified")
	assert.Equal(t, 90000, meta.Citation)
}

func TestExtract_RetriesBadReplies(t *testing.T) {
	srv, calls := fakeChatServer(t, "", `{"title": "x", "summary": "", "keywords": []}`, sampleMetadata)
	e := newTestExtractor(t, srv)
	src := writeFile(t, "paper.md", "# Paper")

	meta, err := e.Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "NeurIPS", meta.ConferenceJournal)
}

func TestExtract_GivesUpAfterRetries(t *testing.T) {
	srv, calls := fakeChatServer(t, "")
	e := newTestExtractor(t, srv)
	src := writeFile(t, "paper.txt", "text")

	_, err := e.Extract(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
	assert.Equal(t, int32(DefaultRetries), calls.Load())
}

func TestExtract_ClientErrorsAreNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, calls := statusChatServer(t, []int{status, status, status, status}, sampleMetadata)
			e := newTestExtractor(t, srv)

			_, err := e.Extract(context.Background(), writeFile(t, "paper.txt", "text"))
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrPermanent)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestExtract_ServerErrorRetriedByClient(t *testing.T) {
	srv, calls := statusChatServer(t, []int{http.StatusServiceUnavailable}, sampleMetadata)
	e := newTestExtractor(t, srv)

	meta, err := e.Extract(context.Background(), writeFile(t, "paper.txt", "text"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "Attention Is All You Need", meta.Title)
}

func TestExtract_LoadErrorsSkipTheModel(t *testing.T) {
	srv, calls := fakeChatServer(t, sampleMetadata)
	e := newTestExtractor(t, srv)

	_, err := e.Extract(context.Background(), writeFile(t, "paper.pdf", "%PDF"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = e.Extract(context.Background(), writeFile(t, "blank.txt", " \n\t"))
	assert.ErrorIs(t, err, ErrEmptyText)

	assert.Zero(t, calls.Load())
}

func TestLoader_Files(t *testing.T) {
	l := NewLoader(nil)
	ctx := context.Background()

	text, err := l.Load(ctx, writeFile(t, "notes.md", "\n  # Notes\nbody  \n"))
	require.NoError(t, err)
	assert.Equal(t, "# Notes\nbody", text)

	_, err = l.Load(ctx, Source(filepath.Join(t.TempDir(), "missing.txt")))
	assert.Error(t, err)

	page := `<html><head><title>Detection</title></head><body>
<nav>Home | About</nav>
<article><h1>Real-time detection</h1>
<p>We present a single-stage object detector that predicts bounding boxes and class
probabilities directly from full images in one evaluation. The whole detection
pipeline is a single network, so it can be optimized end-to-end on detection
performance. Our base model processes images in real time at forty-five frames
per second while still more than doubling the mean average precision of other
real-time systems.</p>
<p>Compared to region proposal methods the detector makes more localization
errors but is far less likely to predict false positives on background. It also
learns very general representations of objects and outperforms other detection
methods when generalizing from natural images to other domains like artwork.</p>
</article></body></html>`
	text, err = l.Load(ctx, writeFile(t, "page.html", page))
	require.NoError(t, err)
	assert.Contains(t, text, "single-stage object detector")
}

func TestLoader_URLCachedAndShared(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "plain paper text")
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())
	src := Source(srv.URL + "/paper.txt")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := l.Load(context.Background(), src)
			assert.NoError(t, err)
			assert.Equal(t, "plain paper text", text)
		}()
	}
	wg.Wait()

	_, err := l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoader_URLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewLoader(nil).Load(context.Background(), Source(srv.URL+"/gone"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestUnmarshalFlexible(t *testing.T) {
	type out struct {
		Title string `json:"title"`
		N     int    `json:"n"`
	}
	tests := []struct {
		name  string
		input string
	}{
		{"plain", `{"title": "a", "n": 1}`},
		{"double encoded", `"{\"title\": \"a\", \"n\": 1}"`},
		{"code fence", "```json\n{\"title\": \"a\", \"n\": 1}\n```"},
		{"duplicate brace", `{ {"title": "a", "n": 1}`},
		{"trailing comma", `{"title": "a", "n": 1,}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got out
			require.NoError(t, UnmarshalFlexible(tt.input, &got))
			assert.Equal(t, out{Title: "a", N: 1}, got)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(&Metadata{})
	assert.Contains(t, schema.Required, "title")
	assert.Contains(t, schema.Required, "keywords")
	_, ok := schema.Properties.Get("network_architectures")
	assert.True(t, ok)
}

func TestNormalize_Invalid(t *testing.T) {
	m := Metadata{Title: "t", Summary: "s", Keywords: []string{" ", ""}}
	assert.Error(t, m.Normalize(), "all-blank keywords should fail validation")

	m = Metadata{Title: "t", Summary: "s", Keywords: []string{"k"}, Citation: -1}
	assert.Error(t, m.Normalize())
}

func TestNormalize_KnownCategoryAlias(t *testing.T) {
	m := Metadata{Title: "t", Summary: "image stuff", Keywords: []string{"k"}, Category: "CV"}
	require.NoError(t, m.Normalize())
	assert.Equal(t, string(taxonomy.ComputerVision), m.Category)
}

func TestToDocument(t *testing.T) {
	var m Metadata
	require.NoError(t, UnmarshalFlexible(sampleMetadata, &m))
	require.NoError(t, m.Normalize())

	doc := m.ToDocument(Source("/tmp/papers/attention.txt"))
	assert.Equal(t, "Attention Is All You Need", doc.Name)
	assert.Equal(t, db.StatusUnread, doc.ReadingStatus)
	assert.Equal(t, taxonomy.NLP, doc.Category)
	assert.Empty(t, doc.DownloadURL)

	doc = m.ToDocument(Source("https://example.org/paper"))
	assert.Equal(t, "https://example.org/paper", doc.DownloadURL)
}

func TestTruncate_ShortTextUntouched(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "no budget", Truncate("no budget", 0))
}

type stubExtractor struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *stubExtractor) Extract(ctx context.Context, src Source) (*Metadata, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if strings.Contains(string(src), "bad") {
		return nil, errors.New("model refused")
	}
	return &Metadata{Title: string(src), Category: "nlp"}, nil
}

func TestIngestAll_OrderAndFailures(t *testing.T) {
	stub := &stubExtractor{}
	sources := []Source{"a.txt", "bad.txt", "c.txt", "d.txt", "e.txt", "f.txt"}

	results := IngestAll(context.Background(), stub, sources, 2)
	require.Len(t, results, len(sources))
	for i, r := range results {
		assert.Equal(t, sources[i], r.Source)
	}
	assert.EqualError(t, results[1].Err, "model refused")
	assert.Equal(t, "model refused", results[1].Error)
	assert.Equal(t, "f.txt", results[5].Metadata.Title)
	assert.Len(t, Succeeded(results), 5)
	assert.LessOrEqual(t, stub.peak.Load(), int32(2))
}

func TestIngestAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := IngestAll(ctx, &stubExtractor{}, []Source{"a.txt", "b.txt"}, 0)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Empty(t, Succeeded(results))
}
