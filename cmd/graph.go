package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/taxonomy"
)

var (
	graphCluster string
	graphJSON    bool
	graphAll     bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the relevance graph and print a cluster",
	Long: "Builds the document and topic clusters from the library and prints the selected\n" +
		"cluster (the first one when --cluster is unknown) with the summary counters.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		records, clusters, err := buildGraph(d)
		if err != nil {
			return err
		}
		summary := relevance.Summarize(records, clusters)

		var shown []relevance.Cluster
		if graphAll {
			shown = clusters
		} else if c, ok := relevance.SelectCluster(clusters, graphCluster); ok {
			shown = []relevance.Cluster{c}
		}

		if graphJSON {
			ids := make([]string, len(clusters))
			for i, c := range clusters {
				ids[i] = c.ID
			}
			return printJSON(struct {
				Summary    relevance.Summary   `json:"summary"`
				ClusterIDs []string            `json:"cluster_ids"`
				Clusters   []relevance.Cluster `json:"clusters"`
			}{summary, ids, orEmpty(shown)})
		}

		printSummary(summary)
		if len(shown) == 0 {
			fmt.Println("  No connections yet: add documents that share keywords or match a topic.")
			return nil
		}
		if !graphAll && graphCluster != "" && shown[0].ID != graphCluster {
			fmt.Println("  " + warnStyle.Render(fmt.Sprintf("cluster %q not found, showing %q", graphCluster, shown[0].ID)))
		}
		for _, c := range shown {
			printCluster(c)
		}
		if !graphAll && len(clusters) > 1 {
			ids := make([]string, len(clusters))
			for i, c := range clusters {
				ids[i] = c.ID
			}
			fmt.Println(dimStyle.Render("  clusters: " + strings.Join(ids, ", ")))
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphCluster, "cluster", relevance.AllClusterID, "Cluster to show (all or a category id)")
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Output as JSON")
	graphCmd.Flags().BoolVar(&graphAll, "all", false, "Show every cluster")
	rootCmd.AddCommand(graphCmd)
}

func orEmpty(clusters []relevance.Cluster) []relevance.Cluster {
	if clusters == nil {
		return []relevance.Cluster{}
	}
	return clusters
}

func printSummary(s relevance.Summary) {
	fmt.Printf("\n  Total Articles: %d  Connections: %d  Clusters: %d  Optimization Points: %d\n\n",
		s.Articles, s.Connections, s.Clusters, s.OptimizationPoints)
}

func printCluster(c relevance.Cluster) {
	printHeading(fmt.Sprintf("%s (%s, %d edges)", c.Name, plural(c.NodeCount, "node"), c.EdgeCount))

	for _, n := range c.Nodes {
		marker := "[D]"
		detail := fmt.Sprintf("%d citations", n.Citations)
		if n.Kind == relevance.KindTopic {
			marker = "[T]"
			detail = n.Category.DisplayName()
		}
		fmt.Printf("  %s %-22s %s  %s\n", marker, truncID(n.ID), truncTitle(n.Label, 50), dimStyle.Render(detail))
	}

	fmt.Println()
	for _, e := range c.Edges {
		arrow := "-->"
		label := e.Label
		if e.Style == taxonomy.StyleAttention {
			arrow = "-.->"
			label = warnStyle.Render(label)
		}
		fmt.Printf("  %s %s %s  %s\n", truncID(e.Source), arrow, truncID(e.Target), label)
	}
	fmt.Println()
}
