package graph

import "sort"

// HubNode is a node with high connectivity
type HubNode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	Degree    int    `json:"degree"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	DocumentNodes     int            `json:"document_nodes"`
	TopicNodes        int            `json:"topic_nodes"`
	NumComponents     int            `json:"num_components"`
	LargestComponent  int            `json:"largest_component"`
	SmallestComponent int            `json:"smallest_component"`
	OrphanCount       int            `json:"orphan_count"`
	OrphanIDs         []string       `json:"orphan_ids"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram"`
	Hubs              []HubNode      `json:"hubs"`
}

// ComputeTopology analyzes graph topology: components, orphans, degree distribution, hubs
func ComputeTopology(snap *GraphSnapshot, hubThreshold, topN int) *TopologyReport {
	if len(snap.Nodes) == 0 {
		return &TopologyReport{
			DegreeHistogram: defaultHistogram(),
		}
	}

	nodeIDs := snap.NodeIDs()
	report := &TopologyReport{
		TotalNodes:      len(snap.Nodes),
		TotalEdges:      len(snap.Edges),
		DegreeHistogram: defaultHistogram(),
	}

	uf := NewUnionFind(nodeIDs)
	for _, e := range snap.Edges {
		if snap.Nodes[e.Source] == nil || snap.Nodes[e.Target] == nil {
			continue
		}
		uf.Union(e.Source, e.Target)
	}
	components := uf.Components()
	report.NumComponents = len(components)
	report.LargestComponent = len(components[0])
	report.SmallestComponent = len(components[len(components)-1])

	for _, id := range nodeIDs {
		node := snap.Nodes[id]
		degree := len(snap.Adj[id])

		if node.IsDocument() {
			report.DocumentNodes++
		} else {
			report.TopicNodes++
		}

		// Orphans only appear after FilterToRegion cuts a node's edges.
		if degree == 0 {
			report.OrphanCount++
			if len(report.OrphanIDs) < topN {
				report.OrphanIDs = append(report.OrphanIDs, id)
			}
		}

		report.DegreeHistogram[degreeBucket(degree)].Count++

		if degree > hubThreshold {
			report.Hubs = append(report.Hubs, HubNode{
				ID:        id,
				Title:     node.Title,
				Kind:      string(node.Kind),
				Degree:    degree,
				InDegree:  len(snap.InAdj[id]),
				OutDegree: len(snap.OutAdj[id]),
			})
		}
	}

	sort.SliceStable(report.Hubs, func(i, j int) bool { return report.Hubs[i].Degree > report.Hubs[j].Degree })
	if len(report.Hubs) > topN {
		report.Hubs = report.Hubs[:topN]
	}

	return report
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}
