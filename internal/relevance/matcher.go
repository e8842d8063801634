package relevance

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"inkwell/atlas/internal/taxonomy"
)

// topicMatcher scans text for any of one topic's keywords. Each topic gets
// its own automaton: leftmost-longest matching never reports overlapping
// hits, so a shared automaton could hide one topic's keyword behind
// another's.
type topicMatcher struct {
	topic    taxonomy.TopicNode
	keywords []string
	ac       ahocorasick.AhoCorasick
}

func newTopicMatcher(topic taxonomy.TopicNode) *topicMatcher {
	m := &topicMatcher{
		topic:    topic,
		keywords: NormalizeKeywords(topic.Keywords),
	}
	if len(m.keywords) == 0 {
		return m
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	m.ac = builder.Build(m.keywords)
	return m
}

// contains reports whether any topic keyword occurs in text.
func (m *topicMatcher) contains(text string) bool {
	if len(m.keywords) == 0 || text == "" {
		return false
	}
	return len(m.ac.FindAll(text)) > 0
}

// matches expects keywords normalized and summary lowercased.
func (m *topicMatcher) matches(keywords []string, summary string) bool {
	if len(m.keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if m.contains(kw) {
			return true
		}
		for _, tk := range m.keywords {
			if strings.Contains(tk, kw) {
				return true
			}
		}
	}
	return m.contains(summary)
}
