package db

import (
	"fmt"
	"time"

	"inkwell/atlas/internal/taxonomy"
)

func millis(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UnixMilli()
}

// defaultDocuments is the sample library a fresh session starts with.
var defaultDocuments = []Document{
	{
		ID:                   "doc_1",
		Name:                 "Research_Paper_Analysis.pdf",
		Summary:              "Comprehensive analysis of machine learning algorithms and their applications in data science. This document explores various methodologies and provides insights into best practices for implementation.",
		Keywords:             []string{"machine learning", "algorithms", "data science", "analysis", "methodology"},
		MethodSummary:        "Quantitative analysis using statistical methods and experimental validation with cross-validation techniques.",
		CodeAddress:          "https://github.com/research/ml-analysis/blob/main/analysis.py",
		DownloadURL:          "https://arxiv.org/pdf/2024.12345.pdf",
		LiteratureTime:       "2024-01-15",
		CreatedAt:            millis("2024-01-15T10:30:00Z"),
		ReadingStatus:        StatusCompleted,
		ConferenceJournal:    "NeurIPS 2024",
		Datasets:             []string{"ImageNet", "COCO", "MNIST"},
		NetworkArchitectures: []string{"ResNet-50", "Transformer", "CNN"},
		Innovation:           "Novel attention mechanism that improves accuracy by 15% while reducing computational cost",
		Notes:                "Experimental results validated across multiple datasets with consistent improvements",
		Author:               "Smith, J., Johnson, A., & Wang, L.",
		Citation:             1523,
		Category:             taxonomy.MachineLearning,
	},
	{
		ID:                   "doc_2",
		Name:                 "Technical_Documentation.md",
		Summary:              "Technical documentation covering API specifications, implementation guidelines, and system architecture. Includes detailed examples and code snippets for developers.",
		Keywords:             []string{"API", "documentation", "architecture", "development", "specifications"},
		MethodSummary:        "Systematic documentation approach with structured content organization and practical examples.",
		CodeAddress:          "https://github.com/project/docs/blob/main/technical-guide.md",
		DownloadURL:          "https://arxiv.org/pdf/2024.67890.pdf",
		LiteratureTime:       "2024-01-20",
		CreatedAt:            millis("2024-01-20T14:15:00Z"),
		ReadingStatus:        StatusReading,
		ConferenceJournal:    "ICML 2024",
		Datasets:             []string{"Custom Dataset", "OpenAI Gym"},
		NetworkArchitectures: []string{"GAN", "VAE"},
		Innovation:           "Introduces a hybrid architecture combining generative and discriminative models",
		Notes:                "Code implementation available with detailed API documentation",
		Author:               "Chen, M., & Rodriguez, P.",
		Citation:             847,
		Category:             taxonomy.NLP,
	},
	{
		ID:                   "doc_3",
		Name:                 "Market_Research_Report.docx",
		Summary:              "Market analysis report examining current trends, competitive landscape, and growth opportunities in the technology sector. Contains statistical data and forecasting models.",
		Keywords:             []string{"market research", "trends", "competitive analysis", "technology", "forecasting"},
		MethodSummary:        "Mixed-methods research combining quantitative market data analysis with qualitative stakeholder interviews.",
		CodeAddress:          "https://github.com/research/market-analysis/blob/main/report.R",
		DownloadURL:          "https://arxiv.org/pdf/2024.11223.pdf",
		LiteratureTime:       "2024-01-10",
		CreatedAt:            millis("2024-01-10T09:45:00Z"),
		ReadingStatus:        StatusUnread,
		ConferenceJournal:    "CVPR 2024",
		Datasets:             []string{"Market Data API", "Financial Reports"},
		NetworkArchitectures: []string{"LSTM", "GRU"},
		Innovation:           "Real-time market prediction using temporal attention mechanisms",
		Notes:                "Includes comprehensive statistical analysis with R implementation",
		Author:               "Thompson, R., & Lee, K.",
		Citation:             2145,
		Category:             taxonomy.ComputerVision,
	},
}

// SeedDefaults inserts the sample documents. Already present IDs are left alone.
func (d *DB) SeedDefaults() error {
	for _, doc := range defaultDocuments {
		if err := insertDocument(d.conn, doc, true); err != nil {
			return fmt.Errorf("seeding %s: %w", doc.ID, err)
		}
	}
	return nil
}
