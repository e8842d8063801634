package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/db"
	"inkwell/atlas/internal/graph"
	"inkwell/atlas/internal/relevance"
)

var (
	relBudget    int
	relMaxHops   int
	relMaxCost   float64
	relDocsOnly  bool
	relJSON      bool
	relEdgeKinds string
)

var relatedCmd = &cobra.Command{
	Use:   "related <doc>",
	Short: "Weighted related-work traversal from a document",
	Long: "Walks the relevance graph outward from a document, cheapest relations first.\n" +
		"Shared keywords cost 0.3, topic matches 0.5, topic relations 0.6 and flagged\n" +
		"relations 0.9. The document may be given as an ID, an ID prefix, or a name.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		source, err := ResolveDocument(d, args[0])
		if err != nil {
			return err
		}

		_, clusters, err := buildGraph(d)
		if err != nil {
			return err
		}

		cluster, ok := clusterContaining(clusters, source)
		if !ok {
			if relJSON {
				return printJSON(relatedOutput(source, "", nil))
			}
			fmt.Printf("%s has no connections in the graph\n", source.Name)
			return nil
		}

		config := &graph.RelatedConfig{
			Budget:        relBudget,
			MaxHops:       relMaxHops,
			MaxCost:       relMaxCost,
			DocumentsOnly: relDocsOnly,
		}
		for _, k := range splitList(relEdgeKinds) {
			config.EdgeKinds = append(config.EdgeKinds, relevance.EdgeKind(k))
		}

		results, err := graph.SnapshotFromCluster(cluster).Related(source.ID, config)
		if err != nil {
			return fmt.Errorf("related traversal: %w", err)
		}

		if relJSON {
			return printJSON(relatedOutput(source, cluster.ID, results))
		}

		printRelatedHumanReadable(source, cluster, results)
		return nil
	},
}

func init() {
	defaults := graph.DefaultRelatedConfig()
	relatedCmd.Flags().IntVar(&relBudget, "budget", defaults.Budget, "Max nodes to return")
	relatedCmd.Flags().IntVar(&relMaxHops, "max-hops", defaults.MaxHops, "Max graph depth")
	relatedCmd.Flags().Float64Var(&relMaxCost, "max-cost", defaults.MaxCost, "Cost ceiling")
	relatedCmd.Flags().BoolVar(&relDocsOnly, "docs-only", false, "Traverse topics but list only documents")
	relatedCmd.Flags().BoolVar(&relJSON, "json", false, "JSON output")
	relatedCmd.Flags().StringVar(&relEdgeKinds, "edge-kinds", "", "Comma-separated edge kind allowlist (shared_keywords,topic_match,topic_relation)")
	rootCmd.AddCommand(relatedCmd)
}

// clusterContaining prefers the all-documents cluster and falls back to the
// document's category cluster, which also holds its topic links.
func clusterContaining(clusters []relevance.Cluster, doc *db.Document) (relevance.Cluster, bool) {
	var fallback *relevance.Cluster
	for i := range clusters {
		if _, ok := clusters[i].Node(doc.ID); !ok {
			continue
		}
		if clusters[i].ID == relevance.AllClusterID {
			return clusters[i], true
		}
		if fallback == nil || clusters[i].Category == doc.Category {
			fallback = &clusters[i]
		}
	}
	if fallback == nil {
		return relevance.Cluster{}, false
	}
	return *fallback, true
}

func relatedOutput(source *db.Document, clusterID string, results []graph.RelatedNode) any {
	if results == nil {
		results = []graph.RelatedNode{}
	}
	return struct {
		Source struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"source"`
		Cluster string              `json:"cluster"`
		Budget  int                 `json:"budget"`
		Results []graph.RelatedNode `json:"results"`
		Count   int                 `json:"count"`
	}{
		Source: struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}{source.ID, source.Name},
		Cluster: clusterID,
		Budget:  relBudget,
		Results: results,
		Count:   len(results),
	}
}

func printRelatedHumanReadable(source *db.Document, cluster relevance.Cluster, results []graph.RelatedNode) {
	if len(results) == 0 {
		fmt.Printf("No related work found for: %s\n", source.Name)
		return
	}

	fmt.Printf("Related to: %s (%s)  cluster=%s budget=%d\n\n", source.Name, truncID(source.ID), cluster.ID, relBudget)

	for _, r := range results {
		marker := "[D]"
		if r.Kind == string(relevance.KindTopic) {
			marker = "[T]"
		}
		fmt.Printf("  %2d. %s %s  dist=%.2f rel=%.0f%% hops=%d\n",
			r.Rank, marker, r.Title, r.Distance, r.Relevance*100, r.Hops)

		if len(r.Path) > 0 {
			hops := make([]string, len(r.Path))
			for i, hop := range r.Path {
				hops[i] = fmt.Sprintf("->[%s]-> %s", truncTitle(hop.EdgeLabel, 30), truncTitle(hop.Title, 40))
			}
			fmt.Println(dimStyle.Render("      " + strings.Join(hops, " ")))
		}
	}

	fmt.Printf("\n%s within budget\n", plural(len(results), "node"))
}
