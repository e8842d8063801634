package relevance

import "inkwell/atlas/internal/taxonomy"

// Summary holds the counters shown next to the graph.
type Summary struct {
	Articles           int `json:"articles"`
	Connections        int `json:"connections"`
	Clusters           int `json:"clusters"`
	OptimizationPoints int `json:"optimization_points"`
}

// Summarize counts records, distinct edges across the displayed clusters,
// the clusters themselves, and distinct needs-attention edges.
func Summarize(records []Record, clusters []Cluster) Summary {
	edges := make(map[string]bool)
	attention := make(map[string]bool)
	for _, c := range clusters {
		for _, e := range c.Edges {
			edges[e.ID] = true
			if e.Style == taxonomy.StyleAttention {
				attention[e.ID] = true
			}
		}
	}
	return Summary{
		Articles:           len(records),
		Connections:        len(edges),
		Clusters:           len(clusters),
		OptimizationPoints: len(attention),
	}
}
