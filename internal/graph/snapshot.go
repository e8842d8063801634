// Package graph analyzes relevance clusters: connectivity, structural
// fragility, under-connected high-impact documents, and weighted
// related-work traversal.
package graph

import (
	"sort"

	"inkwell/atlas/internal/relevance"
)

// NodeInfo is a lightweight node representation decoupled from builder types
type NodeInfo struct {
	ID        string
	Title     string
	Kind      relevance.NodeKind
	Category  string
	Citations int
}

// IsDocument reports whether the node is a library document.
func (n *NodeInfo) IsDocument() bool { return n.Kind == relevance.KindDocument }

// EdgeInfo is a lightweight edge representation
type EdgeInfo struct {
	ID     string
	Source string
	Target string
	Label  string
	Kind   relevance.EdgeKind
	Style  string
}

// GraphSnapshot holds a graph with precomputed adjacency lists and region map
type GraphSnapshot struct {
	Nodes    map[string]*NodeInfo
	Edges    []EdgeInfo
	Adj      map[string][]string // undirected
	OutAdj   map[string][]string // directed: source -> targets
	InAdj    map[string][]string // directed: target -> sources
	Incident map[string][]int    // node_id -> indices into Edges
	Regions  map[string]string   // node_id -> category
}

// NewSnapshot builds a GraphSnapshot from raw nodes and edges. Edges with an
// endpoint outside nodes are kept in Edges but ignored for adjacency.
func NewSnapshot(nodes []*NodeInfo, edges []EdgeInfo) *GraphSnapshot {
	nodeMap := make(map[string]*NodeInfo, len(nodes))
	adj := make(map[string][]string)
	outAdj := make(map[string][]string)
	inAdj := make(map[string][]string)
	incident := make(map[string][]int)
	regions := make(map[string]string, len(nodes))

	for _, n := range nodes {
		nodeMap[n.ID] = n
		adj[n.ID] = nil // ensure entry exists
		outAdj[n.ID] = nil
		inAdj[n.ID] = nil
		region := n.Category
		if region == "" {
			region = "unassigned"
		}
		regions[n.ID] = region
	}

	for i, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
		outAdj[e.Source] = append(outAdj[e.Source], e.Target)
		inAdj[e.Target] = append(inAdj[e.Target], e.Source)
		incident[e.Source] = append(incident[e.Source], i)
		if e.Target != e.Source {
			incident[e.Target] = append(incident[e.Target], i)
		}
	}

	return &GraphSnapshot{
		Nodes:    nodeMap,
		Edges:    edges,
		Adj:      adj,
		OutAdj:   outAdj,
		InAdj:    inAdj,
		Incident: incident,
		Regions:  regions,
	}
}

// SnapshotFromCluster converts a built cluster into an analyzable snapshot.
func SnapshotFromCluster(c relevance.Cluster) *GraphSnapshot {
	nodes := make([]*NodeInfo, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		nodes = append(nodes, &NodeInfo{
			ID:        n.ID,
			Title:     n.Label,
			Kind:      n.Kind,
			Category:  string(n.Category),
			Citations: n.Citations,
		})
	}

	edges := make([]EdgeInfo, 0, len(c.Edges))
	for _, e := range c.Edges {
		edges = append(edges, EdgeInfo{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
			Kind:   e.Kind,
			Style:  string(e.Style),
		})
	}

	return NewSnapshot(nodes, edges)
}

// FilterToRegion returns a new snapshot containing only nodes of one category
// and the edges between them.
func (s *GraphSnapshot) FilterToRegion(region string) *GraphSnapshot {
	var filteredNodes []*NodeInfo
	filteredSet := make(map[string]bool)
	for _, id := range s.NodeIDs() {
		if s.Regions[id] == region {
			filteredNodes = append(filteredNodes, s.Nodes[id])
			filteredSet[id] = true
		}
	}

	var filteredEdges []EdgeInfo
	for _, e := range s.Edges {
		if filteredSet[e.Source] && filteredSet[e.Target] {
			filteredEdges = append(filteredEdges, e)
		}
	}

	return NewSnapshot(filteredNodes, filteredEdges)
}

// NodeIDs returns a sorted list of all node IDs (for deterministic output)
func (s *GraphSnapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Title returns the node's display title, or its ID when unknown.
func (s *GraphSnapshot) Title(id string) string {
	if n := s.Nodes[id]; n != nil && n.Title != "" {
		return n.Title
	}
	return id
}
