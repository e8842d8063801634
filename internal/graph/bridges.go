package graph

import "sort"

// FragileCrossEdges is the most cross-category edges a category pair can
// share and still be reported as a fragile connection.
const FragileCrossEdges = 2

// ArticulationPoint is a node whose removal splits its component
type ArticulationPoint struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	Neighbors int    `json:"neighbors"`
}

// BridgeEdge is a relation whose removal splits its component
type BridgeEdge struct {
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	SourceTitle string `json:"source_title"`
	TargetTitle string `json:"target_title"`
	Label       string `json:"label"`
}

// FragileConnection is a pair of categories joined by very few edges
type FragileConnection struct {
	CategoryA  string `json:"category_a"`
	CategoryB  string `json:"category_b"`
	CrossEdges int    `json:"cross_edges"`
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges"`
	FragileConnections []FragileConnection `json:"fragile_connections"`
	APCount            int                 `json:"ap_count"`
	BridgeCount        int                 `json:"bridge_count"`
}

type nodePair struct{ u, v int }

func orderedPair(u, v int) nodePair {
	if u > v {
		return nodePair{v, u}
	}
	return nodePair{u, v}
}

// ComputeBridges finds articulation points, bridge edges, and weakly joined category pairs
func ComputeBridges(snap *GraphSnapshot) *BridgeReport {
	if len(snap.Nodes) == 0 {
		return &BridgeReport{}
	}

	nodeIDs := snap.NodeIDs()
	idToIdx := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		idToIdx[id] = i
	}
	n := len(nodeIDs)

	// Parallel relations between the same two nodes collapse into one
	// undirected link; the first label seen names the bridge.
	adjIdx := make([][]int, n)
	labels := make(map[nodePair]string)
	for _, e := range snap.Edges {
		u, okU := idToIdx[e.Source]
		v, okV := idToIdx[e.Target]
		if !okU || !okV || u == v {
			continue
		}
		key := orderedPair(u, v)
		if _, dup := labels[key]; dup {
			continue
		}
		labels[key] = e.Label
		adjIdx[u] = append(adjIdx[u], v)
		adjIdx[v] = append(adjIdx[v], u)
	}

	disc := make([]int, n)
	low := make([]int, n)
	isAP := make([]bool, n)
	var bridgePairs []nodePair
	counter := 1

	const noParent = -1
	type frame struct {
		node, parent, next int
	}

	for start := 0; start < n; start++ {
		if disc[start] != 0 {
			continue
		}
		disc[start] = counter
		low[start] = counter
		counter++

		stack := []frame{{start, noParent, 0}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := top.node

			if top.next < len(adjIdx[node]) {
				child := adjIdx[node][top.next]
				top.next++
				if child == top.parent {
					continue
				}
				if disc[child] != 0 {
					low[node] = min(low[node], disc[child])
					continue
				}
				disc[child] = counter
				low[child] = counter
				counter++
				if node == start {
					rootChildren++
				}
				stack = append(stack, frame{child, node, 0})
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			pn := stack[len(stack)-1].node
			low[pn] = min(low[pn], low[node])
			if low[node] > disc[pn] {
				bridgePairs = append(bridgePairs, orderedPair(pn, node))
			}
			if pn != start && low[node] >= disc[pn] {
				isAP[pn] = true
			}
		}

		if rootChildren >= 2 {
			isAP[start] = true
		}
	}

	report := &BridgeReport{}
	for i, id := range nodeIDs {
		if !isAP[i] {
			continue
		}
		report.ArticulationPoints = append(report.ArticulationPoints, ArticulationPoint{
			ID:        id,
			Title:     snap.Title(id),
			Kind:      string(snap.Nodes[id].Kind),
			Neighbors: len(adjIdx[i]),
		})
	}

	sort.Slice(bridgePairs, func(i, j int) bool {
		if bridgePairs[i].u != bridgePairs[j].u {
			return bridgePairs[i].u < bridgePairs[j].u
		}
		return bridgePairs[i].v < bridgePairs[j].v
	})
	for _, pair := range bridgePairs {
		uid, vid := nodeIDs[pair.u], nodeIDs[pair.v]
		report.BridgeEdges = append(report.BridgeEdges, BridgeEdge{
			SourceID:    uid,
			TargetID:    vid,
			SourceTitle: snap.Title(uid),
			TargetTitle: snap.Title(vid),
			Label:       labels[pair],
		})
	}

	report.FragileConnections = fragileConnections(snap)
	report.APCount = len(report.ArticulationPoints)
	report.BridgeCount = len(report.BridgeEdges)
	return report
}

func fragileConnections(snap *GraphSnapshot) []FragileConnection {
	type categoryPair struct{ a, b string }
	counts := make(map[categoryPair]int)
	for _, e := range snap.Edges {
		ca, okA := snap.Regions[e.Source]
		cb, okB := snap.Regions[e.Target]
		if !okA || !okB || ca == cb {
			continue
		}
		if ca > cb {
			ca, cb = cb, ca
		}
		counts[categoryPair{ca, cb}]++
	}

	var fragile []FragileConnection
	for pair, count := range counts {
		if count <= FragileCrossEdges {
			fragile = append(fragile, FragileConnection{
				CategoryA:  pair.a,
				CategoryB:  pair.b,
				CrossEdges: count,
			})
		}
	}
	sort.Slice(fragile, func(i, j int) bool {
		if fragile[i].CrossEdges != fragile[j].CrossEdges {
			return fragile[i].CrossEdges < fragile[j].CrossEdges
		}
		if fragile[i].CategoryA != fragile[j].CategoryA {
			return fragile[i].CategoryA < fragile[j].CategoryA
		}
		return fragile[i].CategoryB < fragile[j].CategoryB
	})
	return fragile
}
