package graph

import (
	"container/heap"
	"fmt"

	"inkwell/atlas/internal/relevance"
	"inkwell/atlas/internal/taxonomy"
)

// RelatedNode is a node reached by Dijkstra traversal from a source document.
type RelatedNode struct {
	Rank      int       `json:"rank"`
	NodeID    string    `json:"node_id"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	Distance  float64   `json:"distance"`
	Relevance float64   `json:"relevance"`
	Hops      int       `json:"hops"`
	Path      []PathHop `json:"path"`
}

// PathHop is one hop in a path from the source to a related node.
type PathHop struct {
	EdgeID    string `json:"edge_id"`
	EdgeLabel string `json:"edge_label"`
	NodeID    string `json:"node_id"`
	Title     string `json:"title"`
}

// RelatedConfig holds parameters for related-work traversal.
type RelatedConfig struct {
	Budget        int
	MaxHops       int
	MaxCost       float64
	DocumentsOnly bool                 // traverse topics but only report documents
	EdgeKinds     []relevance.EdgeKind // allowlist; nil means all
}

// DefaultRelatedConfig returns the traversal defaults used by the CLI.
func DefaultRelatedConfig() *RelatedConfig {
	return &RelatedConfig{
		Budget:  20,
		MaxHops: 6,
		MaxCost: 3.0,
	}
}

// EdgeCost is the traversal cost of one edge. Attention-styled edges are the
// most expensive regardless of kind.
func EdgeCost(kind relevance.EdgeKind, style string) float64 {
	if style == string(taxonomy.StyleAttention) {
		return 0.9
	}
	switch kind {
	case relevance.KindSharedKeywords:
		return 0.3
	case relevance.KindTopicMatch:
		return 0.5
	case relevance.KindTopicRelation:
		return 0.6
	default:
		return 1.0
	}
}

type prevEntry struct {
	prevNodeID string
	edgeID     string
	edgeLabel  string
}

type dijkstraEntry struct {
	distance float64
	nodeID   string
	hops     int
}

// dijkstraHeap is a min-heap with ties broken by nodeID.
type dijkstraHeap []dijkstraEntry

func (h dijkstraHeap) Len() int { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].nodeID < h[j].nodeID
}
func (h dijkstraHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x any)   { *h = append(*h, x.(dijkstraEntry)) }
func (h *dijkstraHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Related walks the snapshot outward from sourceID, treating every edge as
// undirected. Returns up to config.Budget nodes in ascending distance order.
func (s *GraphSnapshot) Related(sourceID string, config *RelatedConfig) ([]RelatedNode, error) {
	if _, ok := s.Nodes[sourceID]; !ok {
		return nil, fmt.Errorf("node %s is not in this graph", sourceID)
	}
	if config == nil {
		config = DefaultRelatedConfig()
	}
	defaults := DefaultRelatedConfig()
	budget, maxHops, maxCost := config.Budget, config.MaxHops, config.MaxCost
	if budget <= 0 {
		budget = defaults.Budget
	}
	if maxHops <= 0 {
		maxHops = defaults.MaxHops
	}
	if maxCost <= 0 {
		maxCost = defaults.MaxCost
	}

	var allow map[relevance.EdgeKind]bool
	if config.EdgeKinds != nil {
		allow = make(map[relevance.EdgeKind]bool, len(config.EdgeKinds))
		for _, k := range config.EdgeKinds {
			allow[k] = true
		}
	}

	dist := map[string]float64{sourceID: 0}
	prev := map[string]prevEntry{}
	visited := map[string]bool{}
	h := &dijkstraHeap{{distance: 0, nodeID: sourceID}}

	results := []RelatedNode{}
	for h.Len() > 0 {
		entry := heap.Pop(h).(dijkstraEntry)
		current := entry.nodeID
		if visited[current] {
			continue
		}
		visited[current] = true

		if current != sourceID {
			node := s.Nodes[current]
			if !config.DocumentsOnly || node.IsDocument() {
				results = append(results, RelatedNode{
					NodeID:    current,
					Title:     s.Title(current),
					Kind:      string(node.Kind),
					Distance:  entry.distance,
					Relevance: 1.0 / (1.0 + entry.distance),
					Hops:      entry.hops,
					Path:      s.reconstructPath(prev, sourceID, current),
				})
				if len(results) >= budget {
					break
				}
			}
		}

		if entry.hops >= maxHops {
			continue
		}

		for _, idx := range s.Incident[current] {
			edge := s.Edges[idx]
			if allow != nil && !allow[edge.Kind] {
				continue
			}
			neighbor := edge.Target
			if neighbor == current {
				neighbor = edge.Source
			}
			if visited[neighbor] {
				continue
			}

			newDist := entry.distance + EdgeCost(edge.Kind, edge.Style)
			if newDist > maxCost {
				continue
			}
			if d, seen := dist[neighbor]; !seen || newDist < d {
				dist[neighbor] = newDist
				prev[neighbor] = prevEntry{prevNodeID: current, edgeID: edge.ID, edgeLabel: edge.Label}
				heap.Push(h, dijkstraEntry{distance: newDist, nodeID: neighbor, hops: entry.hops + 1})
			}
		}
	}

	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// reconstructPath walks prev backwards from target and returns the hops in
// source-to-target order.
func (s *GraphSnapshot) reconstructPath(prev map[string]prevEntry, source, target string) []PathHop {
	var path []PathHop
	for current := target; current != source; {
		entry, ok := prev[current]
		if !ok {
			break
		}
		path = append(path, PathHop{
			EdgeID:    entry.edgeID,
			EdgeLabel: entry.edgeLabel,
			NodeID:    current,
			Title:     s.Title(current),
		})
		current = entry.prevNodeID
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
