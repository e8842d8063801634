package db

import (
	"errors"
	"strings"
	"testing"
	"time"

	"inkwell/atlas/internal/taxonomy"
)

// setupTestDB opens an empty in-memory library for one test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func setupSeededDB(t *testing.T) *DB {
	t.Helper()
	d := setupTestDB(t)
	if err := d.SeedDefaults(); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	d := setupSeededDB(t)
	if err := d.SeedDefaults(); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	n, err := d.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got %d documents, want 3", n)
	}
}

func TestAllDocuments_InsertionOrderAndLists(t *testing.T) {
	d := setupSeededDB(t)
	docs, err := d.AllDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	for i, want := range []string{"doc_1", "doc_2", "doc_3"} {
		if docs[i].ID != want {
			t.Errorf("docs[%d] = %s, want %s", i, docs[i].ID, want)
		}
	}
	if len(docs[0].Keywords) != 5 || docs[0].Keywords[0] != "machine learning" {
		t.Errorf("keywords not round-tripped: %q", docs[0].Keywords)
	}
	if docs[2].Category != taxonomy.ComputerVision {
		t.Errorf("got category %q, want computer-vision", docs[2].Category)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	d := setupTestDB(t)
	_, err := d.GetDocument("doc_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestAddDocument_AssignsIDAndDefaults(t *testing.T) {
	d := setupTestDB(t)
	before := time.Now().UnixMilli()

	doc, err := d.AddDocument(Document{
		ID:            "ignored",
		Name:          "  detector.pdf ",
		Summary:       "Real-time object detection with YOLO",
		Keywords:      []string{" yolo ", "", "bounding box"},
		ReadingStatus: "skimmed",
		Citation:      -4,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(doc.ID, "doc_") || doc.ID == "ignored" {
		t.Errorf("unexpected id %q", doc.ID)
	}
	if doc.CreatedAt < before {
		t.Errorf("created_at %d before %d", doc.CreatedAt, before)
	}
	if doc.Name != "detector.pdf" {
		t.Errorf("got name %q", doc.Name)
	}
	if doc.Category != taxonomy.ComputerVision {
		t.Errorf("missing category should be classified, got %q", doc.Category)
	}
	if doc.ReadingStatus != StatusUnread {
		t.Errorf("got status %q, want unread", doc.ReadingStatus)
	}
	if doc.Citation != 0 {
		t.Errorf("negative citation should clamp to 0, got %d", doc.Citation)
	}

	stored, err := d.GetDocument(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Keywords) != 2 || stored.Keywords[0] != "yolo" {
		t.Errorf("got keywords %q", stored.Keywords)
	}
}

func TestAddDocument_UnknownCategoryFallsBack(t *testing.T) {
	d := setupTestDB(t)
	doc, err := d.AddDocument(Document{Name: "x", Category: "astronomy"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Category != taxonomy.Fallback {
		t.Errorf("got %q, want fallback", doc.Category)
	}
}

func TestImportDocuments(t *testing.T) {
	d := setupSeededDB(t)
	input := `[
		{"id": "paper_a", "name": "A", "keywords": ["bert"], "category": "nlp", "citation": 10, "created_at": 1700000000000},
		{"name": "B", "summary": "image segmentation", "keywords": ["mask"]}
	]`
	docs, err := d.ImportDocuments(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].ID != "paper_a" || docs[0].CreatedAt != 1700000000000 {
		t.Errorf("explicit id/timestamp not kept: %+v", docs[0])
	}
	if !strings.HasPrefix(docs[1].ID, "doc_") || docs[1].CreatedAt == 0 {
		t.Errorf("missing id/timestamp not assigned: %+v", docs[1])
	}
	if docs[1].Category != taxonomy.ComputerVision {
		t.Errorf("got %q, want computer-vision", docs[1].Category)
	}

	n, _ := d.Count()
	if n != 5 {
		t.Errorf("got %d documents, want 5", n)
	}
}

func TestImportDocuments_DuplicateRollsBack(t *testing.T) {
	d := setupSeededDB(t)
	input := `[{"id": "new_one", "name": "N"}, {"id": "doc_1", "name": "dup"}]`
	if _, err := d.ImportDocuments(strings.NewReader(input)); err == nil {
		t.Fatal("expected duplicate id error")
	}
	n, _ := d.Count()
	if n != 3 {
		t.Errorf("failed import should roll back, got %d documents", n)
	}
}

func TestSearchByIDPrefix(t *testing.T) {
	d := setupSeededDB(t)
	docs, err := d.SearchByIDPrefix("doc_", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Errorf("got %d matches, want 3", len(docs))
	}
	docs, err = d.SearchByIDPrefix("doc_2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "doc_2" {
		t.Errorf("got %v, want doc_2", docs)
	}
}

func TestCountByCategoryAndRecords(t *testing.T) {
	d := setupSeededDB(t)
	counts, err := d.CountByCategory()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range taxonomy.Categories {
		if counts[c] != 1 {
			t.Errorf("category %s: got %d, want 1", c, counts[c])
		}
	}

	records, err := d.Records()
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Citations != 1523 {
		t.Errorf("got %d citations, want 1523", records[0].Citations)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !records[0].CreatedAt.Equal(want) {
		t.Errorf("got %v, want %v", records[0].CreatedAt, want)
	}
}
