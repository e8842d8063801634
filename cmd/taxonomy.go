package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/taxonomy"
)

var (
	taxonomyJSON     bool
	taxonomyCategory string
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the resolved topic taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := DiscoverTaxonomy()
		if err != nil {
			return err
		}
		categories, err := selectCategories(tax, taxonomyCategory)
		if err != nil {
			return err
		}

		if taxonomyJSON {
			if taxonomyCategory != "" {
				return printJSON(categories[0])
			}
			return printJSON(tax)
		}

		fmt.Printf("\n  Taxonomy v%d from %s (%d topics)\n\n", tax.Version, tax.Source, tax.TopicCount())
		for _, cat := range categories {
			printHeading(fmt.Sprintf("%s [%s]", cat.Name, cat.ID))
			for _, topic := range cat.Topics {
				relation := topic.Relation
				if relation == "" {
					relation = "(default relation)"
				}
				fmt.Printf("  %-22s %-28s %s\n", topic.ID, truncTitle(topic.Label, 28), dimStyle.Render(relation))
				fmt.Printf("  %-22s %s\n", "", strings.Join(topic.Keywords, ", "))
			}
			for _, e := range cat.Edges {
				fmt.Printf("  %s -> %s  %s (%s)\n", e.Source, e.Target, e.Label, e.Style)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "Output as JSON")
	taxonomyCmd.Flags().StringVar(&taxonomyCategory, "category", "", "Show only one category")
	rootCmd.AddCommand(taxonomyCmd)
}

// selectCategories returns every category, or only the one ref names.
func selectCategories(tax *taxonomy.Taxonomy, ref string) ([]taxonomy.CategoryConfig, error) {
	if ref == "" {
		return tax.Categories, nil
	}
	id, ok := taxonomy.LookupCategory(ref)
	if !ok {
		return nil, fmt.Errorf("unknown category: %s", ref)
	}
	cat, ok := tax.Category(id)
	if !ok {
		return nil, fmt.Errorf("category %s is not configured in %s", id, tax.Source)
	}
	return []taxonomy.CategoryConfig{*cat}, nil
}
