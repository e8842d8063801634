package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsAllCategories(t *testing.T) {
	tax, err := Default()
	require.NoError(t, err)

	assert.Equal(t, EmbeddedSource, tax.Source)
	require.Len(t, tax.Categories, len(Categories))
	for i, c := range Categories {
		assert.Equal(t, c, tax.Categories[i].ID, "categories keep declared order")
	}
	for _, cat := range tax.Categories {
		for _, topic := range cat.Topics {
			assert.Equal(t, cat.ID, topic.Category, "topic %s", topic.ID)
			assert.NotEmpty(t, topic.Keywords, "topic %s", topic.ID)
		}
	}
}

func TestDefault_AttentionEdge(t *testing.T) {
	tax, err := Default()
	require.NoError(t, err)

	ml, ok := tax.Category(MachineLearning)
	require.True(t, ok)

	var found bool
	for _, e := range ml.Edges {
		if e.Style == StyleAttention {
			found = true
			assert.Equal(t, "Needs optimization", e.Label)
		}
	}
	assert.True(t, found, "expected a needs-optimization edge")
}

func TestParse_NormalizesKeywordsAndStyle(t *testing.T) {
	tax, err := Parse([]byte(`
version: 2
categories:
  - id: " NLP "
    topics:
      - id: t1
        label: Topic One
        keywords: ["  Attention ", "", "BERT"]
      - id: t2
        label: Topic Two
        keywords: [gpt]
    edges:
      - {source: t1, target: t2, label: Evolution}
`))
	require.NoError(t, err)

	cat := tax.Categories[0]
	assert.Equal(t, NLP, cat.ID)
	assert.Equal(t, "NLP", cat.Name)
	assert.Equal(t, []string{"attention", "bert"}, cat.Topics[0].Keywords)
	assert.Equal(t, StyleNormal, cat.Edges[0].Style)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no categories", "version: 1\ncategories: []\n"},
		{"zero version", "version: 0\ncategories:\n  - id: nlp\n"},
		{"unknown category", "version: 1\ncategories:\n  - id: robotics\n"},
		{"duplicate category", "version: 1\ncategories:\n  - id: nlp\n  - id: nlp\n"},
		{"topic without keywords", `
version: 1
categories:
  - id: nlp
    topics:
      - {id: t1, label: T, keywords: []}
`},
		{"duplicate topic", `
version: 1
categories:
  - id: nlp
    topics:
      - {id: t1, label: T, keywords: [a]}
  - id: machine-learning
    topics:
      - {id: t1, label: T, keywords: [b]}
`},
		{"edge outside category", `
version: 1
categories:
  - id: nlp
    topics:
      - {id: t1, label: T, keywords: [a]}
    edges:
      - {source: t1, target: t9, label: X}
`},
		{"bad style", `
version: 1
categories:
  - id: nlp
    topics:
      - {id: t1, label: T, keywords: [a]}
      - {id: t2, label: U, keywords: [b]}
    edges:
      - {source: t1, target: t2, label: X, style: wavy}
`},
		{"malformed yaml", "version: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_SetsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.yaml")
	require.NoError(t, os.WriteFile(path, defaultYAML, 0o644))

	tax, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, tax.Source)
	assert.Greater(t, tax.TopicCount(), 0)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"computer-vision", ComputerVision},
		{"CV", ComputerVision},
		{" nlp ", NLP},
		{"Machine Learning", MachineLearning},
		{"", Fallback},
		{"astronomy", Fallback},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCategory(tt.in), "ParseCategory(%q)", tt.in)
	}
}
