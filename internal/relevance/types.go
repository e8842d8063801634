// Package relevance builds the relevance graph: clusters of documents and
// topic nodes joined by shared-keyword and topic-match edges.
//
// Everything here is a pure function of its inputs. Callers rebuild the
// clusters from scratch whenever the document collection changes.
package relevance

import (
	"time"

	"inkwell/atlas/internal/taxonomy"
)

// Record is the slice of a library document the graph operates on.
type Record struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Summary   string            `json:"summary"`
	Keywords  []string          `json:"keywords"`
	Category  taxonomy.Category `json:"category"`
	Citations int               `json:"citations"`
	CreatedAt time.Time         `json:"created_at"`
}

// NodeKind distinguishes library documents from static topic nodes.
type NodeKind string

const (
	KindDocument NodeKind = "document"
	KindTopic    NodeKind = "topic"
)

// EdgeKind records which rule produced an edge.
type EdgeKind string

const (
	KindSharedKeywords EdgeKind = "shared_keywords" // document -> document
	KindTopicMatch     EdgeKind = "topic_match"     // topic -> document
	KindTopicRelation  EdgeKind = "topic_relation"  // authored topic -> topic
)

// Node is a graph vertex.
type Node struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	Kind      NodeKind          `json:"kind"`
	Category  taxonomy.Category `json:"category"`
	Citations int               `json:"citations,omitempty"`
}

// Edge is a directed, labeled relation between two nodes of one cluster.
type Edge struct {
	ID     string             `json:"id"`
	Source string             `json:"source"`
	Target string             `json:"target"`
	Label  string             `json:"label"`
	Style  taxonomy.EdgeStyle `json:"style"`
	Kind   EdgeKind           `json:"kind"`
}

// Cluster is one displayable graph view.
type Cluster struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  taxonomy.Category `json:"category,omitempty"`
	Nodes     []Node            `json:"nodes"`
	Edges     []Edge            `json:"edges"`
	NodeCount int               `json:"node_count"`
	EdgeCount int               `json:"edge_count"`
}

// Node returns the node with the given ID.
func (c *Cluster) Node(id string) (Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
