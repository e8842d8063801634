// Package extract turns source files and web pages into library documents
// by asking a chat model for structured paper metadata.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"

	"inkwell/atlas/internal/classify"
	"inkwell/atlas/internal/db"
	"inkwell/atlas/internal/taxonomy"
)

var (
	// ErrNoAPIKey is returned when the extractor has no credentials.
	ErrNoAPIKey = errors.New("no OpenAI API key configured (set OPENAI_API_KEY)")
	// ErrEmptyText is returned when a source yields no readable text.
	ErrEmptyText = errors.New("source contains no readable text")
	// ErrUnsupported is returned for file types the loader cannot read.
	ErrUnsupported = errors.New("unsupported source type")
)

// Metadata is the structured record the model fills in for one paper.
type Metadata struct {
	Title                string   `json:"title" jsonschema:"description=Paper title" validate:"required"`
	Summary              string   `json:"summary" jsonschema:"description=Two or three sentence abstract" validate:"required"`
	Keywords             []string `json:"keywords" jsonschema:"description=Lowercase technical keywords" validate:"required,min=1,dive,required"`
	MethodSummary        string   `json:"method_summary" jsonschema:"description=How the method works"`
	Category             string   `json:"category" jsonschema:"enum=computer-vision,enum=nlp,enum=machine-learning"`
	Author               string   `json:"author"`
	ConferenceJournal    string   `json:"conference_journal"`
	LiteratureTime       string   `json:"literature_time" jsonschema:"description=Publication date as printed"`
	Datasets             []string `json:"datasets"`
	NetworkArchitectures []string `json:"network_architectures"`
	Innovation           string   `json:"innovation"`
	CodeAddress          string   `json:"code_address"`
	Citation             int      `json:"citation" validate:"gte=0"`
}

// Source names one input to extract from: a local path or an http(s) URL.
type Source string

// IsURL reports whether the source is fetched over the network.
func (s Source) IsURL() bool {
	lower := strings.ToLower(string(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Name is the display name used for the resulting document.
func (s Source) Name() string {
	if s.IsURL() {
		return string(s)
	}
	return filepath.Base(string(s))
}

// Extractor produces metadata for one source.
type Extractor interface {
	Extract(ctx context.Context, src Source) (*Metadata, error)
}

var validate = validator.New()

// Normalize validates m and cleans it up in place: keywords are trimmed,
// lowercased and deduplicated, and an unknown category is replaced by
// keyword classification.
func (m *Metadata) Normalize() error {
	m.Title = strings.TrimSpace(m.Title)
	m.Summary = strings.TrimSpace(m.Summary)
	keywords := m.Keywords[:0]
	seen := make(map[string]bool, len(m.Keywords))
	for _, k := range m.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keywords = append(keywords, k)
	}
	m.Keywords = keywords

	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}

	if c, ok := taxonomy.LookupCategory(m.Category); ok {
		m.Category = string(c)
	} else {
		m.Category = string(classify.Classify(m.Summary, m.Keywords))
	}
	return nil
}

// ToDocument converts extracted metadata into a library document. The
// library assigns the ID and creation time on insert.
func (m *Metadata) ToDocument(src Source) db.Document {
	doc := db.Document{
		Name:                 src.Name(),
		Summary:              m.Summary,
		Keywords:             m.Keywords,
		MethodSummary:        m.MethodSummary,
		CodeAddress:          m.CodeAddress,
		LiteratureTime:       m.LiteratureTime,
		ReadingStatus:        db.StatusUnread,
		ConferenceJournal:    m.ConferenceJournal,
		Datasets:             m.Datasets,
		NetworkArchitectures: m.NetworkArchitectures,
		Innovation:           m.Innovation,
		Author:               m.Author,
		Citation:             m.Citation,
		Category:             taxonomy.Category(m.Category),
	}
	if m.Title != "" {
		doc.Name = m.Title
	}
	if src.IsURL() {
		doc.DownloadURL = string(src)
	}
	return doc
}
