package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/graph"
	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/taxonomy"
)

var (
	analyzeJSON              bool
	analyzeCluster           string
	analyzeRegion            string
	analyzeTopN              int
	analyzeHubThreshold      int
	analyzeCitationThreshold int
	analyzeWeakDegree        int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze cluster structure: topology, attention, bridges, health score",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenLibrary()
		if err != nil {
			return err
		}
		defer d.Close()

		_, clusters, err := buildGraph(d)
		if err != nil {
			return err
		}

		cluster, ok := relevance.SelectCluster(clusters, analyzeCluster)
		if !ok {
			return fmt.Errorf("the graph is empty: no document shares a keyword or matches a topic")
		}

		snap := graph.SnapshotFromCluster(cluster)
		if analyzeRegion != "" {
			category, ok := taxonomy.LookupCategory(analyzeRegion)
			if !ok {
				return fmt.Errorf("unknown category for --region: %s", analyzeRegion)
			}
			snap = snap.FilterToRegion(string(category))
		}
		config := &graph.AnalyzerConfig{
			HubThreshold:      analyzeHubThreshold,
			TopN:              analyzeTopN,
			CitationThreshold: analyzeCitationThreshold,
			WeakDegree:        analyzeWeakDegree,
		}

		report := graph.Analyze(snap, config)
		report.ClusterID = cluster.ID

		if analyzeJSON {
			return printJSON(report)
		}

		fmt.Printf("\n  Cluster: %s\n", cluster.Name)
		if analyzeRegion != "" {
			fmt.Printf("  Region: %s\n", analyzeRegion)
		}
		printHumanReadable(report, snap)
		return nil
	},
}

func init() {
	defaults := graph.DefaultConfig()
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().StringVar(&analyzeCluster, "cluster", relevance.AllClusterID, "Cluster to analyze")
	analyzeCmd.Flags().StringVar(&analyzeRegion, "region", "", "Restrict the analysis to one category's nodes")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	analyzeCmd.Flags().IntVar(&analyzeHubThreshold, "hub-threshold", 4, "Minimum degree to consider a node a hub")
	analyzeCmd.Flags().IntVar(&analyzeCitationThreshold, "citation-threshold", defaults.CitationThreshold, "Citations at which a weakly linked document needs attention")
	analyzeCmd.Flags().IntVar(&analyzeWeakDegree, "weak-degree", defaults.WeakDegree, "Maximum degree still counted as weakly linked")
	rootCmd.AddCommand(analyzeCmd)
}

func printHumanReadable(report *graph.AnalysisReport, snap *graph.GraphSnapshot) {
	// Health bar
	barLen := min(int(report.HealthScore*20), 20)
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Printf("  Graph Health: %.0f%%  [%s]\n", report.HealthScore*100, bar)
	fmt.Printf("  breakdown: connectivity=%.2f components=%.2f attention=%.2f fragility=%.2f\n\n",
		report.HealthBreakdown.Connectivity,
		report.HealthBreakdown.Components,
		report.HealthBreakdown.Attention,
		report.HealthBreakdown.Fragility)

	// Topology
	t := report.Topology
	printHeading("TOPOLOGY")
	fmt.Printf("  Nodes: %d (%d documents, %d topics)  Edges: %d  Components: %d\n",
		t.TotalNodes, t.DocumentNodes, t.TopicNodes, t.TotalEdges, t.NumComponents)
	fmt.Printf("  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)

	if t.OrphanCount > 0 {
		fmt.Printf("  Orphans: %d disconnected nodes\n", t.OrphanCount)
		limit := min(len(t.OrphanIDs), 5)
		for _, id := range t.OrphanIDs[:limit] {
			fmt.Printf("    - %s (%s)\n", truncID(id), truncTitle(snap.Title(id), 50))
		}
		if t.OrphanCount > 5 {
			fmt.Printf("    ... and %d more\n", t.OrphanCount-5)
		}
	}

	// Degree distribution
	fmt.Println("\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := max(int(math.Log2(float64(b.Count)))+2, 1)
			fmt.Printf("    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	// Hubs
	if len(t.Hubs) > 0 {
		fmt.Println("\n  Top hubs (degree > threshold):")
		for _, hub := range t.Hubs {
			fmt.Printf("    %s %s degree=%d (in=%d, out=%d)  %s\n",
				truncID(hub.ID), hub.Kind, hub.Degree, hub.InDegree, hub.OutDegree, truncTitle(hub.Title, 40))
		}
	}

	// Attention
	a := report.Attention
	if a.PointCount > 0 || a.EdgeCount > 0 {
		fmt.Println()
		printHeading("NEEDS ATTENTION")
		if a.PointCount > 0 {
			fmt.Printf("  %d highly cited but weakly linked documents:\n", a.PointCount)
			for _, p := range a.OptimizationPoints[:min(len(a.OptimizationPoints), 10)] {
				fmt.Printf("    %s %d citations, degree %d  %s\n",
					truncID(p.ID), p.Citations, p.Degree, truncTitle(p.Title, 40))
			}
		}
		if a.EdgeCount > 0 {
			fmt.Printf("  %s:\n", plural(a.EdgeCount, "flagged relation"))
			for _, e := range a.AttentionEdges[:min(len(a.AttentionEdges), 10)] {
				fmt.Printf("    %s -.-> %s  %s\n",
					truncTitle(e.SourceTitle, 25), truncTitle(e.TargetTitle, 25), warnStyle.Render(e.Label))
			}
		}
	}

	// Bridges
	br := report.Bridges
	if br.APCount > 0 || br.BridgeCount > 0 || len(br.FragileConnections) > 0 {
		fmt.Println()
		printHeading("STRUCTURAL FRAGILITY")
		if br.APCount > 0 {
			fmt.Printf("  %d articulation points (removal disconnects graph):\n", br.APCount)
			for _, ap := range br.ArticulationPoints[:min(len(br.ArticulationPoints), 10)] {
				fmt.Printf("    %s (%s)  %s\n",
					truncID(ap.ID), plural(ap.Neighbors, "neighbor"), truncTitle(ap.Title, 40))
			}
		}
		if br.BridgeCount > 0 {
			fmt.Printf("  %d bridge edges (removal disconnects graph):\n", br.BridgeCount)
			for _, be := range br.BridgeEdges[:min(len(br.BridgeEdges), 10)] {
				fmt.Printf("    %s -> %s\n", truncTitle(be.SourceTitle, 30), truncTitle(be.TargetTitle, 30))
			}
		}
		if len(br.FragileConnections) > 0 {
			fmt.Printf("  %d fragile inter-category connections (<=%d edges):\n",
				len(br.FragileConnections), graph.FragileCrossEdges)
			for _, fc := range br.FragileConnections[:min(len(br.FragileConnections), 10)] {
				fmt.Printf("    %s <-> %s (%s)\n", fc.CategoryA, fc.CategoryB, plural(fc.CrossEdges, "edge"))
			}
		}
	}

	fmt.Println()
}
