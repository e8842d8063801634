package db

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"inkwell/atlas/internal/classify"
	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/taxonomy"
)

const documentColumns = `id, name, summary, keywords, method_summary, code_address,
	download_url, literature_time, created_at, reading_status, conference_journal,
	datasets, network_architectures, innovation, notes, author, citation, category`

// scanDocument scans a row into a Document. The row must have all 18 columns in documentColumns order.
func scanDocument(scanner interface{ Scan(dest ...any) error }) (Document, error) {
	var d Document
	var keywords, datasets, archs, status, category string
	err := scanner.Scan(
		&d.ID, &d.Name, &d.Summary, &keywords, &d.MethodSummary, &d.CodeAddress,
		&d.DownloadURL, &d.LiteratureTime, &d.CreatedAt, &status, &d.ConferenceJournal,
		&datasets, &archs, &d.Innovation, &d.Notes, &d.Author, &d.Citation, &category,
	)
	if err != nil {
		return d, err
	}
	d.ReadingStatus = ReadingStatus(status)
	d.Category = taxonomy.Category(category)
	if d.Keywords, err = decodeList(keywords); err != nil {
		return d, fmt.Errorf("document %s keywords: %w", d.ID, err)
	}
	if d.Datasets, err = decodeList(datasets); err != nil {
		return d, fmt.Errorf("document %s datasets: %w", d.ID, err)
	}
	if d.NetworkArchitectures, err = decodeList(archs); err != nil {
		return d, fmt.Errorf("document %s architectures: %w", d.ID, err)
	}
	return d, nil
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// encodeList stores list columns as JSON without HTML escaping, so the
// column text keeps characters like & and <.
func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(items)
	return strings.TrimSuffix(buf.String(), "\n")
}

func decodeList(raw string) ([]string, error) {
	var items []string
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AllDocuments returns all documents in insertion order
func (d *DB) AllDocuments() ([]Document, error) {
	rows, err := d.conn.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

// GetDocument returns a single document by ID, or ErrNotFound.
func (d *DB) GetDocument(id string) (*Document, error) {
	row := d.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// SearchByIDPrefix finds documents whose ID starts with the given prefix.
func (d *DB) SearchByIDPrefix(prefix string, limit int) ([]Document, error) {
	rows, err := d.conn.Query(
		`SELECT `+documentColumns+` FROM documents WHERE id LIKE ? ESCAPE '\' ORDER BY seq LIMIT ?`,
		escapeLike(prefix)+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

// Count returns the number of documents in the library.
func (d *DB) Count() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// CountByCategory returns document counts per category.
func (d *DB) CountByCategory() (map[taxonomy.Category]int, error) {
	rows, err := d.conn.Query(`SELECT category, COUNT(*) FROM documents GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[taxonomy.Category]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[taxonomy.Category(cat)] = n
	}
	return counts, rows.Err()
}

// Records returns every document as graph builder input, in insertion order.
func (d *DB) Records() ([]relevance.Record, error) {
	docs, err := d.AllDocuments()
	if err != nil {
		return nil, err
	}
	records := make([]relevance.Record, len(docs))
	for i, doc := range docs {
		records[i] = doc.Record()
	}
	return records, nil
}

// AddDocument stores a new document under a fresh "doc_" ID stamped with
// the current time. A missing category is inferred from the content.
func (d *DB) AddDocument(doc Document) (*Document, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}
	doc.ID = "doc_" + id
	doc.CreatedAt = time.Now().UnixMilli()
	normalize(&doc)

	if err := insertDocument(d.conn, doc, false); err != nil {
		return nil, fmt.Errorf("adding document: %w", err)
	}
	return &doc, nil
}

// ImportDocuments reads a JSON array of documents and stores them in one
// transaction. IDs and timestamps present in the input are kept.
func (d *DB) ImportDocuments(r io.Reader) ([]Document, error) {
	var docs []Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for i := range docs {
		if docs[i].ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return nil, fmt.Errorf("generating id: %w", err)
			}
			docs[i].ID = "doc_" + id
		}
		if docs[i].CreatedAt == 0 {
			docs[i].CreatedAt = now
		}
		normalize(&docs[i])
		if err := insertDocument(tx, docs[i], false); err != nil {
			return nil, fmt.Errorf("importing %s: %w", docs[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return docs, nil
}

func normalize(doc *Document) {
	doc.Name = strings.TrimSpace(doc.Name)
	if doc.Name == "" {
		doc.Name = doc.ID
	}
	doc.Keywords = trimList(doc.Keywords)
	doc.Datasets = trimList(doc.Datasets)
	doc.NetworkArchitectures = trimList(doc.NetworkArchitectures)

	switch {
	case doc.Category == "":
		doc.Category = classify.Classify(doc.Summary, doc.Keywords)
	case !doc.Category.Valid():
		doc.Category = taxonomy.ParseCategory(string(doc.Category))
	}

	switch doc.ReadingStatus {
	case StatusUnread, StatusReading, StatusCompleted:
	default:
		doc.ReadingStatus = StatusUnread
	}
	if doc.Citation < 0 {
		doc.Citation = 0
	}
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertDocument(e execer, doc Document, ignoreExisting bool) error {
	verb := "INSERT"
	if ignoreExisting {
		verb = "INSERT OR IGNORE"
	}
	_, err := e.Exec(verb+` INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Summary, encodeList(doc.Keywords), doc.MethodSummary, doc.CodeAddress,
		doc.DownloadURL, doc.LiteratureTime, doc.CreatedAt, string(doc.ReadingStatus), doc.ConferenceJournal,
		encodeList(doc.Datasets), encodeList(doc.NetworkArchitectures), doc.Innovation, doc.Notes,
		doc.Author, doc.Citation, string(doc.Category),
	)
	return err
}
