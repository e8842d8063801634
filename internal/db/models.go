package db

import (
	"time"

	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/taxonomy"
)

// ReadingStatus tracks how far the user got with a document.
type ReadingStatus string

const (
	StatusUnread    ReadingStatus = "unread"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
)

// Document represents a row in the documents table
type Document struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Summary              string            `json:"summary"`
	Keywords             []string          `json:"keywords"`
	MethodSummary        string            `json:"method_summary"`
	CodeAddress          string            `json:"code_address"`
	DownloadURL          string            `json:"download_url"`
	LiteratureTime       string            `json:"literature_time"` // publication date as written in the paper
	CreatedAt            int64             `json:"created_at"`      // Unix millis
	ReadingStatus        ReadingStatus     `json:"reading_status"`
	ConferenceJournal    string            `json:"conference_journal"`
	Datasets             []string          `json:"datasets"`
	NetworkArchitectures []string          `json:"network_architectures"`
	Innovation           string            `json:"innovation"`
	Notes                string            `json:"notes"`
	Author               string            `json:"author"`
	Citation             int               `json:"citation"`
	Category             taxonomy.Category `json:"category"`
}

// Record converts the document into the graph builder's input.
func (d Document) Record() relevance.Record {
	return relevance.Record{
		ID:        d.ID,
		Name:      d.Name,
		Summary:   d.Summary,
		Keywords:  d.Keywords,
		Category:  d.Category,
		Citations: d.Citation,
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
	}
}
