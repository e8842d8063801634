package relevance

import (
	"strings"

	"inkwell/atlas/internal/taxonomy"
)

const (
	sharedLabelPrefix = "Shared methodology: "
	// DefaultRelation labels topic edges whose topic has no authored phrase.
	DefaultRelation = "Derived research"
	maxLabelKeywords = 2
)

// NormalizeKeywords lowercases and trims keywords, dropping empties and
// duplicates while keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

// BuildDocumentEdges links every pair of records that share at least one
// keyword. The record with more citations is the source; equal citations
// fall back to the earlier CreatedAt, then to input order.
func BuildDocumentEdges(records []Record) []Edge {
	if len(records) < 2 {
		return nil
	}

	keywords := make([][]string, len(records))
	sets := make([]map[string]bool, len(records))
	for i, r := range records {
		keywords[i] = NormalizeKeywords(r.Keywords)
		sets[i] = make(map[string]bool, len(keywords[i]))
		for _, kw := range keywords[i] {
			sets[i][kw] = true
		}
	}

	var edges []Edge
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if records[i].ID == records[j].ID {
				continue
			}
			src, tgt := i, j
			if !precedes(records[i], records[j]) {
				src, tgt = j, i
			}

			var shared []string
			for _, kw := range keywords[src] {
				if sets[tgt][kw] {
					shared = append(shared, kw)
				}
			}
			if len(shared) == 0 {
				continue
			}

			edges = append(edges, Edge{
				ID:     edgeID(KindSharedKeywords, records[src].ID, records[tgt].ID),
				Source: records[src].ID,
				Target: records[tgt].ID,
				Label:  sharedLabel(shared),
				Style:  taxonomy.StyleNormal,
				Kind:   KindSharedKeywords,
			})
		}
	}
	return edges
}

// precedes reports whether a should be the source of an edge to b, given
// that a comes first in input order.
func precedes(a, b Record) bool {
	if a.Citations != b.Citations {
		return a.Citations > b.Citations
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return true
}

func sharedLabel(shared []string) string {
	if len(shared) > maxLabelKeywords {
		return sharedLabelPrefix + shared[0] + " …"
	}
	return sharedLabelPrefix + strings.Join(shared, ", ")
}

// BuildTopicEdges links each topic to every record it matches. A record
// may connect to several topics; no match is preferred over another.
func BuildTopicEdges(records []Record, topics []taxonomy.TopicNode) []Edge {
	if len(records) == 0 || len(topics) == 0 {
		return nil
	}

	matchers := make([]*topicMatcher, len(topics))
	for i, t := range topics {
		matchers[i] = newTopicMatcher(t)
	}

	var edges []Edge
	for _, r := range records {
		keywords := NormalizeKeywords(r.Keywords)
		summary := strings.ToLower(r.Summary)
		for _, m := range matchers {
			if !m.matches(keywords, summary) {
				continue
			}
			label := m.topic.Relation
			if label == "" {
				label = DefaultRelation
			}
			edges = append(edges, Edge{
				ID:     edgeID(KindTopicMatch, m.topic.ID, r.ID),
				Source: m.topic.ID,
				Target: r.ID,
				Label:  label,
				Style:  taxonomy.StyleNormal,
				Kind:   KindTopicMatch,
			})
		}
	}
	return edges
}

func topicRelationEdges(cat *taxonomy.CategoryConfig) []Edge {
	edges := make([]Edge, 0, len(cat.Edges))
	for _, e := range cat.Edges {
		style := e.Style
		if style == "" {
			style = taxonomy.StyleNormal
		}
		edges = append(edges, Edge{
			ID:     edgeID(KindTopicRelation, e.Source, e.Target),
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
			Style:  style,
			Kind:   KindTopicRelation,
		})
	}
	return edges
}

func edgeID(kind EdgeKind, source, target string) string {
	var prefix string
	switch kind {
	case KindSharedKeywords:
		prefix = "kw"
	case KindTopicMatch:
		prefix = "tm"
	default:
		prefix = "tr"
	}
	return prefix + ":" + source + "->" + target
}
