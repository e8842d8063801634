package relevance

import "inkwell/atlas/internal/taxonomy"

const (
	// AllClusterID identifies the synthetic cluster over every record.
	AllClusterID   = "all"
	allClusterName = "All documents"
)

// BuildClusters produces the displayable clusters: the "all documents"
// cluster first, then one per taxonomy category in declared order. Nodes
// without a surviving edge are dropped, and so are clusters left without
// edges. An empty collection yields no clusters at all.
func BuildClusters(records []Record, tax *taxonomy.Taxonomy) []Cluster {
	if len(records) == 0 {
		return []Cluster{}
	}

	recs := make([]Record, len(records))
	for i, r := range records {
		if !r.Category.Valid() {
			r.Category = taxonomy.ParseCategory(string(r.Category))
		}
		recs[i] = r
	}

	clusters := []Cluster{}
	if c, ok := assemble(AllClusterID, allClusterName, "", documentNodes(recs), BuildDocumentEdges(recs)); ok {
		clusters = append(clusters, c)
	}
	if tax == nil {
		return clusters
	}

	for i := range tax.Categories {
		cat := &tax.Categories[i]

		var subset []Record
		for _, r := range recs {
			if r.Category == cat.ID {
				subset = append(subset, r)
			}
		}

		edges := topicRelationEdges(cat)
		edges = append(edges, BuildDocumentEdges(subset)...)
		edges = append(edges, BuildTopicEdges(subset, cat.Topics)...)

		nodes := topicNodes(cat.Topics)
		nodes = append(nodes, documentNodes(subset)...)

		if c, ok := assemble(string(cat.ID), cat.Name, cat.ID, nodes, edges); ok {
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// assemble drops edges with an endpoint outside the candidate nodes, then
// drops nodes no remaining edge references.
func assemble(id, name string, category taxonomy.Category, nodes []Node, edges []Edge) (Cluster, bool) {
	candidates := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		candidates[n.ID] = true
	}

	keptEdges := make([]Edge, 0, len(edges))
	referenced := make(map[string]bool)
	for _, e := range edges {
		if !candidates[e.Source] || !candidates[e.Target] {
			continue
		}
		keptEdges = append(keptEdges, e)
		referenced[e.Source] = true
		referenced[e.Target] = true
	}

	keptNodes := make([]Node, 0, len(referenced))
	for _, n := range nodes {
		if referenced[n.ID] {
			keptNodes = append(keptNodes, n)
		}
	}

	if len(keptEdges) == 0 || len(keptNodes) == 0 {
		return Cluster{}, false
	}
	return Cluster{
		ID:        id,
		Name:      name,
		Category:  category,
		Nodes:     keptNodes,
		Edges:     keptEdges,
		NodeCount: len(keptNodes),
		EdgeCount: len(keptEdges),
	}, true
}

func documentNodes(records []Record) []Node {
	nodes := make([]Node, 0, len(records))
	for _, r := range records {
		label := r.Name
		if label == "" {
			label = r.ID
		}
		nodes = append(nodes, Node{
			ID:        r.ID,
			Label:     label,
			Kind:      KindDocument,
			Category:  r.Category,
			Citations: r.Citations,
		})
	}
	return nodes
}

func topicNodes(topics []taxonomy.TopicNode) []Node {
	nodes := make([]Node, 0, len(topics))
	for _, t := range topics {
		nodes = append(nodes, Node{
			ID:       t.ID,
			Label:    t.Label,
			Kind:     KindTopic,
			Category: t.Category,
		})
	}
	return nodes
}

// SelectCluster returns the cluster with activeID, falling back to the
// first cluster. It reports false only when clusters is empty.
func SelectCluster(clusters []Cluster, activeID string) (Cluster, bool) {
	if len(clusters) == 0 {
		return Cluster{}, false
	}
	for _, c := range clusters {
		if c.ID == activeID {
			return c, true
		}
	}
	return clusters[0], true
}
