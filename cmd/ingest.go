package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/db"
	"inkwell/atlas/internal/extract"
	"inkwell/atlas/internal/logger"
	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/util"
)

var (
	ingestOut      string
	ingestParallel int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-url>...",
	Short: "Extract paper metadata with a chat model and add it to the library",
	Long: "Reads .txt, .md and .html files or http(s) URLs, asks the configured model for\n" +
		"structured metadata, adds each paper to the library and prints the rebuilt graph\n" +
		"summary. Configure with OPENAI_API_KEY, ATLAS_OPENAI_URL, ATLAS_MODEL and\n" +
		"ATLAS_MAX_TOKENS.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extractor, err := extract.NewOpenAIExtractor(extract.Config{
			APIKey:    util.GetEnvString("OPENAI_API_KEY", ""),
			BaseURL:   util.GetEnvString("ATLAS_OPENAI_URL", ""),
			Model:     util.GetEnvString("ATLAS_MODEL", extract.DefaultModel),
			MaxTokens: util.GetEnvInt("ATLAS_MAX_TOKENS", extract.DefaultMaxTokens),
		})
		if err != nil {
			return err
		}

		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		parallel := ingestParallel
		if !cmd.Flags().Changed("parallel") {
			parallel = util.GetEnvInt("ATLAS_INGEST_PARALLEL", extract.DefaultParallel)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sources := make([]extract.Source, len(args))
		for i, a := range args {
			sources[i] = extract.Source(a)
		}
		logger.Info("Ingesting sources", "count", len(sources), "parallel", parallel)
		start := time.Now()
		results := extract.IngestAll(ctx, extractor, sources, parallel)

		for _, r := range results {
			if r.Err != nil {
				fmt.Printf("  %s %s: %v\n", warnStyle.Render("FAIL"), truncMiddle(string(r.Source), 60), r.Err)
			}
		}
		var added []db.Document
		for _, r := range extract.Succeeded(results) {
			doc, err := d.AddDocument(r.Metadata.ToDocument(r.Source))
			if err != nil {
				return fmt.Errorf("adding %s: %w", r.Source, err)
			}
			added = append(added, *doc)
			fmt.Printf("  %s %s -> %s [%s]\n", headingStyle.Render("OK"), truncMiddle(string(r.Source), 60), doc.ID, doc.Category)
		}

		fmt.Println(dimStyle.Render(fmt.Sprintf("  %d of %d ingested in %s",
			len(added), len(results), formatDuration(time.Since(start)))))

		if ingestOut != "" && len(added) > 0 {
			if err := writeDocuments(ingestOut, added); err != nil {
				return err
			}
			logger.Info("Wrote extracted documents", "path", ingestOut, "count", len(added))
		}

		records, clusters, err := buildGraph(d)
		if err != nil {
			return err
		}
		printSummary(relevance.Summarize(records, clusters))

		if len(added) == 0 {
			return fmt.Errorf("no source could be ingested")
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOut, "out", "", "Write the ingested documents as JSON (importable with --docs)")
	ingestCmd.Flags().IntVar(&ingestParallel, "parallel", extract.DefaultParallel, "Concurrent extractions")
	rootCmd.AddCommand(ingestCmd)
}

func writeDocuments(path string, docs []db.Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
