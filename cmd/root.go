package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/db"
	"inkwell/atlas/internal/logger"
	"inkwell/atlas/internal/logger/console"
	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/taxonomy"
	"inkwell/atlas/internal/util"
)

const taxonomyFileName = ".atlas-taxonomy.yaml"

var (
	taxonomyPath string
	docsPath     string
	noSeed       bool
	debugLog     bool
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Research library and relevance graph",
	Long: "atlas keeps an in-memory library of indexed research papers and relates them\n" +
		"to each other and to a topic taxonomy as keyword-graph clusters.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		util.LoadEnv()
		logger.Init(console.New(console.Params{
			Debug: debugLog || util.GetEnvBool("ATLAS_DEBUG", false),
		}))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "", "Path to a taxonomy YAML file")
	rootCmd.PersistentFlags().StringVar(&docsPath, "docs", "", "JSON file of documents to import before running")
	rootCmd.PersistentFlags().BoolVar(&noSeed, "no-seed", false, "Start from an empty library instead of the sample papers")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
}

// DiscoverTaxonomy finds the taxonomy using priority: env > flag > walk-up > embedded default
func DiscoverTaxonomy() (*taxonomy.Taxonomy, error) {
	// 1. Environment variable
	if envPath := os.Getenv("ATLAS_TAXONOMY"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return taxonomy.Load(envPath)
		}
		logger.Warn("ATLAS_TAXONOMY points to a missing file, ignoring", "path", envPath)
	}

	// 2. CLI flag
	if taxonomyPath != "" {
		if _, err := os.Stat(taxonomyPath); err != nil {
			return nil, fmt.Errorf("taxonomy not found at --taxonomy path: %s", taxonomyPath)
		}
		return taxonomy.Load(taxonomyPath)
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, taxonomyFileName)
			if _, err := os.Stat(candidate); err == nil {
				return taxonomy.Load(candidate)
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. Compiled-in default
	return taxonomy.Default()
}

// OpenLibrary opens the in-memory library, seeds the sample papers unless
// --no-seed is set, and imports --docs.
func OpenLibrary() (*db.DB, error) {
	d, err := db.Open()
	if err != nil {
		return nil, err
	}
	if !noSeed {
		if err := d.SeedDefaults(); err != nil {
			d.Close()
			return nil, fmt.Errorf("seeding library: %w", err)
		}
	}
	if docsPath != "" {
		f, err := os.Open(docsPath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("opening --docs: %w", err)
		}
		defer f.Close()
		imported, err := d.ImportDocuments(f)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("importing %s: %w", docsPath, err)
		}
		logger.Debug("Imported documents", "path", docsPath, "count", len(imported))
	}
	if n, err := d.Count(); err == nil {
		logger.Debug("Library ready", "documents", n)
	}
	return d, nil
}

// buildGraph loads the library records and the taxonomy and builds the clusters.
func buildGraph(d *db.DB) ([]relevance.Record, []relevance.Cluster, error) {
	tax, err := DiscoverTaxonomy()
	if err != nil {
		return nil, nil, fmt.Errorf("loading taxonomy: %w", err)
	}
	records, err := d.Records()
	if err != nil {
		return nil, nil, fmt.Errorf("loading documents: %w", err)
	}
	clusters := relevance.BuildClusters(records, tax)
	logger.Debug("Built relevance graph",
		"taxonomy", tax.Source,
		"documents", len(records),
		"clusters", len(clusters),
	)
	return records, clusters, nil
}

// ResolveDocument finds a document by full ID, ID prefix, or name search.
func ResolveDocument(d *db.DB, reference string) (*db.Document, error) {
	// 1. Exact ID match
	doc, err := d.GetDocument(reference)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	// 2. ID prefix match (>=4 chars)
	if len(reference) >= 4 {
		matches, err := d.SearchByIDPrefix(reference, 10)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 1:
			return &matches[0], nil
		case 0:
			// fall through to name search
		default:
			return nil, ambiguous(reference, matches, "Use a full document ID instead.")
		}
	}

	// 3. Name and summary search
	matches, err := d.SearchByName(reference)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("document not found: %s", reference)
	default:
		return nil, ambiguous(reference, matches, "Use a document ID instead.")
	}
}

func ambiguous(reference string, matches []db.Document, hint string) error {
	limit := min(len(matches), 10)
	lines := make([]string, limit)
	for i := 0; i < limit; i++ {
		lines[i] = fmt.Sprintf("  %s %s", truncID(matches[i].ID), matches[i].Name)
	}
	return fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\n%s",
		reference, len(matches), strings.Join(lines, "\n"), hint)
}
