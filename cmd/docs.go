package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/db"
	"inkwell/atlas/internal/taxonomy"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Browse the document library",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every document in the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		docs, err := d.AllDocuments()
		if err != nil {
			return err
		}
		if err := printDocuments(docs); err != nil || docsJSON || len(docs) == 0 {
			return err
		}

		counts, err := d.CountByCategory()
		if err != nil {
			return err
		}
		parts := make([]string, 0, len(taxonomy.Categories))
		for _, c := range taxonomy.Categories {
			parts = append(parts, fmt.Sprintf("%s %d", c.DisplayName(), counts[c]))
		}
		fmt.Println(dimStyle.Render(strings.Join(parts, "  ")))
		return nil
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search names, summaries, keywords, venues, datasets, authors and notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		docs, err := d.SearchDocuments(strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printDocuments(docs)
	},
}

var docsShowCmd = &cobra.Command{
	Use:   "show <doc>",
	Short: "Show one document in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		doc, err := ResolveDocument(d, args[0])
		if err != nil {
			return err
		}
		if docsJSON {
			return printJSON(doc)
		}
		printDocument(doc)
		return nil
	},
}

func init() {
	docsCmd.PersistentFlags().BoolVar(&docsJSON, "json", false, "Output as JSON")
	docsCmd.AddCommand(docsListCmd, docsSearchCmd, docsShowCmd)
	rootCmd.AddCommand(docsCmd)
}

func printDocuments(docs []db.Document) error {
	if docsJSON {
		if docs == nil {
			docs = []db.Document{}
		}
		return printJSON(docs)
	}
	if len(docs) == 0 {
		fmt.Println("No documents found")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("  %-14s %-18s %6d  %s\n",
			truncID(doc.ID), doc.Category.DisplayName(), doc.Citation, truncTitle(doc.Name, 50))
	}
	fmt.Printf("\n%s\n", plural(len(docs), "document"))
	return nil
}

func printDocument(doc *db.Document) {
	printHeading(doc.Name)
	field := func(label, value string) {
		if value != "" {
			fmt.Printf("  %-20s %s\n", label+":", value)
		}
	}
	field("ID", doc.ID)
	field("Category", doc.Category.DisplayName())
	field("Status", string(doc.ReadingStatus))
	field("Added", time.UnixMilli(doc.CreatedAt).UTC().Format("2006-01-02 15:04"))
	field("Published", doc.LiteratureTime)
	field("Author", doc.Author)
	field("Venue", doc.ConferenceJournal)
	field("Citations", fmt.Sprint(doc.Citation))
	field("Keywords", strings.Join(doc.Keywords, ", "))
	field("Datasets", strings.Join(doc.Datasets, ", "))
	field("Architectures", strings.Join(doc.NetworkArchitectures, ", "))
	field("Code", doc.CodeAddress)
	field("Download", doc.DownloadURL)
	fmt.Println()
	field("Summary", doc.Summary)
	field("Method", doc.MethodSummary)
	field("Innovation", doc.Innovation)
	field("Notes", doc.Notes)
}
