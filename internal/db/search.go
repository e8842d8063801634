package db

import (
	"strconv"
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "is": true,
	"it": true, "and": true, "or": true, "with": true, "from": true,
	"by": true, "this": true, "that": true, "as": true, "be": true,
	"paper": true, "pdf": true,
}

// QueryTerms preprocesses a free-text reference into search terms.
// Splits on whitespace and underscores, trims punctuation, drops stopwords
// and words < 3 chars.
func QueryTerms(query string) []string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	})
	var filtered []string
	for _, w := range words {
		// Trim non-letter/digit chars from both ends
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(trimmed) < 3 {
			continue
		}
		if stopwords[strings.ToLower(trimmed)] {
			continue
		}
		filtered = append(filtered, trimmed)
	}
	return filtered
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// matches reports whether any searchable field contains the lowercased
// query. List fields match element by element.
func (doc *Document) matches(query string) bool {
	fields := []string{
		doc.Name, doc.Summary, doc.MethodSummary, doc.ConferenceJournal,
		doc.Innovation, doc.Notes, doc.Author, strconv.Itoa(doc.Citation),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	for _, list := range [][]string{doc.Keywords, doc.Datasets, doc.NetworkArchitectures} {
		for _, item := range list {
			if strings.Contains(strings.ToLower(item), query) {
				return true
			}
		}
	}
	return false
}

// SearchDocuments returns documents where any searchable field contains
// query, case-insensitively. An empty query returns the whole library.
func (d *DB) SearchDocuments(query string) ([]Document, error) {
	docs, err := d.AllDocuments()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return docs, nil
	}

	var found []Document
	for i := range docs {
		if docs[i].matches(query) {
			found = append(found, docs[i])
		}
	}
	return found, nil
}

// SearchByName returns documents whose name or summary contains every
// term of the reference. Returns an empty slice if no terms survive
// preprocessing.
func (d *DB) SearchByName(reference string) ([]Document, error) {
	terms := QueryTerms(reference)
	if len(terms) == 0 {
		return []Document{}, nil
	}
	docs, err := d.AllDocuments()
	if err != nil {
		return nil, err
	}

	found := []Document{}
	for _, doc := range docs {
		text := strings.ToLower(doc.Name + " " + doc.Summary)
		all := true
		for _, t := range terms {
			if !strings.Contains(text, strings.ToLower(t)) {
				all = false
				break
			}
		}
		if all {
			found = append(found, doc)
		}
	}
	return found, nil
}
