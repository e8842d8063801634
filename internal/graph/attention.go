package graph

import (
	"sort"

	"inkwell/atlas/internal/taxonomy"
)

// OptimizationPoint is a highly cited document that the graph barely connects
type OptimizationPoint struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Citations int    `json:"citations"`
	Degree    int    `json:"degree"`
}

// AttentionEdge is a relation the taxonomy flags as needing work
type AttentionEdge struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	SourceTitle string `json:"source_title"`
	TargetTitle string `json:"target_title"`
	Label       string `json:"label"`
}

// AttentionReport contains attention analysis results
type AttentionReport struct {
	OptimizationPoints []OptimizationPoint `json:"optimization_points"`
	AttentionEdges     []AttentionEdge     `json:"attention_edges"`
	PointCount         int                 `json:"point_count"`
	EdgeCount          int                 `json:"edge_count"`
}

// ComputeAttention finds weakly linked high-citation documents and attention-styled edges
func ComputeAttention(snap *GraphSnapshot, citationThreshold, weakDegree int) *AttentionReport {
	report := &AttentionReport{}

	for _, id := range snap.NodeIDs() {
		node := snap.Nodes[id]
		if !node.IsDocument() || node.Citations < citationThreshold {
			continue
		}
		degree := len(snap.Adj[id])
		if degree > weakDegree {
			continue
		}
		report.OptimizationPoints = append(report.OptimizationPoints, OptimizationPoint{
			ID:        id,
			Title:     node.Title,
			Category:  node.Category,
			Citations: node.Citations,
			Degree:    degree,
		})
	}
	sort.SliceStable(report.OptimizationPoints, func(i, j int) bool {
		return report.OptimizationPoints[i].Citations > report.OptimizationPoints[j].Citations
	})

	seen := make(map[string]bool)
	for _, e := range snap.Edges {
		if e.Style != string(taxonomy.StyleAttention) || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		report.AttentionEdges = append(report.AttentionEdges, AttentionEdge{
			ID:          e.ID,
			SourceID:    e.Source,
			TargetID:    e.Target,
			SourceTitle: snap.Title(e.Source),
			TargetTitle: snap.Title(e.Target),
			Label:       e.Label,
		})
	}

	report.PointCount = len(report.OptimizationPoints)
	report.EdgeCount = len(report.AttentionEdges)
	return report
}
