package db

import (
	"reflect"
	"testing"

	"inkwell/atlas/internal/taxonomy"
)

func TestQueryTerms_StopwordRemoval(t *testing.T) {
	got := QueryTerms("the analysis of a market for forecasting")
	want := []string{"analysis", "market", "forecasting"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQueryTerms_ShortWords(t *testing.T) {
	got := QueryTerms("go do run fast")
	want := []string{"run", "fast"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQueryTerms_FilenameAndPunctuation(t *testing.T) {
	got := QueryTerms("Research_Paper_Analysis.pdf, (draft)")
	want := []string{"Research", "Analysis.pdf", "draft"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQueryTerms_AllStopwords(t *testing.T) {
	if got := QueryTerms("the a an in on at"); len(got) != 0 {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestQueryTerms_Empty(t *testing.T) {
	if got := QueryTerms(""); len(got) != 0 {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestSearchDocuments_Fields(t *testing.T) {
	d := setupSeededDB(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"doc_1", "doc_2", "doc_3"}},
		{"MACHINE LEARNING", []string{"doc_1"}},
		{"neurips", []string{"doc_1"}},               // venue
		{"openai gym", []string{"doc_2"}},            // datasets
		{"lstm", []string{"doc_3"}},                  // architectures
		{"rodriguez", []string{"doc_2"}},             // author
		{"2145", []string{"doc_3"}},                  // citation
		{"with r implementation", []string{"doc_3"}}, // notes
		{"attention", []string{"doc_1", "doc_3"}},
		{"100%", nil},
		{"quantum", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			docs, err := d.SearchDocuments(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, doc := range docs {
				got = append(got, doc.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchByName(t *testing.T) {
	d := setupSeededDB(t)

	docs, err := d.SearchByName("market research report")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "doc_3" {
		t.Errorf("expected doc_3, got %v", docs)
	}

	docs, err = d.SearchByName("the of")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("stopword-only reference should match nothing, got %d", len(docs))
	}
}

func TestSearchDocuments_UnicodeAndSymbols(t *testing.T) {
	d := setupSeededDB(t)
	added, err := d.AddDocument(Document{
		Name:     "Über Attention",
		Summary:  "Notes on gating.",
		Keywords: []string{"R&D", "a<b"},
		Category: taxonomy.NLP,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, query := range []string{"über", "ÜBER", "r&d", "a<b"} {
		t.Run(query, func(t *testing.T) {
			docs, err := d.SearchDocuments(query)
			if err != nil {
				t.Fatal(err)
			}
			if len(docs) != 1 || docs[0].ID != added.ID {
				t.Errorf("got %d documents, want only %s", len(docs), added.ID)
			}
		})
	}

	docs, err := d.SearchByName("über attention")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != added.ID {
		t.Errorf("SearchByName: got %d documents, want only %s", len(docs), added.ID)
	}
}

func TestSearchDocuments_DoesNotMatchAcrossFields(t *testing.T) {
	d := setupTestDB(t)
	if _, err := d.AddDocument(Document{Name: "alpha", Summary: "beta", Category: taxonomy.NLP}); err != nil {
		t.Fatal(err)
	}
	docs, err := d.SearchDocuments("alpha beta")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d documents, want none", len(docs))
	}
}

func TestEncodeList_KeepsHTMLCharacters(t *testing.T) {
	if got := encodeList([]string{"R&D", "a<b>"}); got != `["R&D","a<b>"]` {
		t.Errorf("got %s", got)
	}
	if got := encodeList(nil); got != "[]" {
		t.Errorf("got %s, want []", got)
	}
}
