// Package taxonomy loads the versioned topic configuration: the canonical
// concept nodes of each category and the authored relations between them.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator"
	"github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultYAML []byte

// EmbeddedSource is the Source of the taxonomy compiled into the binary.
const EmbeddedSource = "embedded"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid taxonomy")

// EdgeStyle tags how an edge is rendered.
type EdgeStyle string

const (
	StyleNormal EdgeStyle = "normal"
	// StyleAttention marks relations flagged for follow-up (drawn dashed).
	StyleAttention EdgeStyle = "attention"
)

// TopicNode is a static concept node used for keyword matching.
type TopicNode struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Label    string   `yaml:"label" json:"label" validate:"required"`
	Category Category `yaml:"-" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
	// Relation labels topic -> document edges. Empty means the generic label.
	Relation string `yaml:"relation,omitempty" json:"relation,omitempty"`
}

// TopicEdge is an authored topic -> topic relation.
type TopicEdge struct {
	Source string    `yaml:"source" json:"source" validate:"required"`
	Target string    `yaml:"target" json:"target" validate:"required"`
	Label  string    `yaml:"label" json:"label" validate:"required"`
	Style  EdgeStyle `yaml:"style,omitempty" json:"style" validate:"omitempty,oneof=normal attention"`
}

// CategoryConfig holds the topics and topic edges of one category.
type CategoryConfig struct {
	ID     Category    `yaml:"id" json:"id" validate:"required"`
	Name   string      `yaml:"name" json:"name"`
	Topics []TopicNode `yaml:"topics" json:"topics" validate:"dive"`
	Edges  []TopicEdge `yaml:"edges" json:"edges" validate:"dive"`
}

// Taxonomy is the full topic configuration.
type Taxonomy struct {
	Version    int              `yaml:"version" json:"version" validate:"min=1"`
	Categories []CategoryConfig `yaml:"categories" json:"categories" validate:"required,min=1,dive"`
	Source     string           `yaml:"-" json:"source"`
}

// Default returns the taxonomy compiled into the binary.
func Default() (*Taxonomy, error) {
	t, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded taxonomy: %w", err)
	}
	t.Source = EmbeddedSource
	return t, nil
}

// Load reads and validates a taxonomy file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// Parse decodes YAML, normalizes keywords and validates the result.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Taxonomy) normalize() {
	for ci := range t.Categories {
		cat := &t.Categories[ci]
		cat.ID = Category(strings.ToLower(strings.TrimSpace(string(cat.ID))))
		if cat.Name == "" {
			cat.Name = cat.ID.DisplayName()
		}
		for ti := range cat.Topics {
			topic := &cat.Topics[ti]
			topic.Category = cat.ID
			kws := topic.Keywords[:0]
			for _, kw := range topic.Keywords {
				kw = strings.ToLower(strings.TrimSpace(kw))
				if kw != "" {
					kws = append(kws, kw)
				}
			}
			topic.Keywords = kws
		}
		for ei := range cat.Edges {
			if cat.Edges[ei].Style == "" {
				cat.Edges[ei].Style = StyleNormal
			}
		}
	}
}

// Validate checks struct constraints and referential integrity: unique
// categories and topic IDs, known categories, and edges whose endpoints are
// topics of the same category.
func (t *Taxonomy) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	seenCats := make(map[Category]bool, len(t.Categories))
	seenTopics := make(map[string]Category)
	for _, cat := range t.Categories {
		if !cat.ID.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalid, cat.ID)
		}
		if seenCats[cat.ID] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalid, cat.ID)
		}
		seenCats[cat.ID] = true

		local := make(map[string]bool, len(cat.Topics))
		for _, topic := range cat.Topics {
			if other, dup := seenTopics[topic.ID]; dup {
				return fmt.Errorf("%w: topic %q defined in both %s and %s", ErrInvalid, topic.ID, other, cat.ID)
			}
			seenTopics[topic.ID] = cat.ID
			local[topic.ID] = true
		}
		for _, e := range cat.Edges {
			if !local[e.Source] || !local[e.Target] {
				return fmt.Errorf("%w: edge %s -> %s in %s references a topic outside the category",
					ErrInvalid, e.Source, e.Target, cat.ID)
			}
			if e.Source == e.Target {
				return fmt.Errorf("%w: self-loop on topic %q", ErrInvalid, e.Source)
			}
		}
	}
	return nil
}

// Category returns the configuration for id.
func (t *Taxonomy) Category(id Category) (*CategoryConfig, bool) {
	for i := range t.Categories {
		if t.Categories[i].ID == id {
			return &t.Categories[i], true
		}
	}
	return nil, false
}

// TopicCount returns the number of topic nodes across all categories.
func (t *Taxonomy) TopicCount() int {
	n := 0
	for _, cat := range t.Categories {
		n += len(cat.Topics)
	}
	return n
}
