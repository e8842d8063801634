package graph

import "math"

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity"`
	Components   float64 `json:"components"`
	Attention    float64 `json:"attention"`
	Fragility    float64 `json:"fragility"`
}

// AnalysisReport is the full analysis result for one cluster
type AnalysisReport struct {
	ClusterID       string           `json:"cluster_id,omitempty"`
	HealthScore     float64          `json:"health_score"`
	HealthBreakdown HealthBreakdown  `json:"health_breakdown"`
	Topology        *TopologyReport  `json:"topology"`
	Attention       *AttentionReport `json:"attention"`
	Bridges         *BridgeReport    `json:"bridges"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold      int
	TopN              int
	CitationThreshold int
	WeakDegree        int
}

// DefaultConfig returns the analysis defaults used by the CLI
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold:      10,
		TopN:              50,
		CitationThreshold: 1000,
		WeakDegree:        1,
	}
}

// Analyze runs all analyses and computes a composite health score
func Analyze(snap *GraphSnapshot, config *AnalyzerConfig) *AnalysisReport {
	if config == nil {
		config = DefaultConfig()
	}
	topology := ComputeTopology(snap, config.HubThreshold, config.TopN)
	attention := ComputeAttention(snap, config.CitationThreshold, config.WeakDegree)
	bridges := ComputeBridges(snap)

	total := float64(topology.TotalNodes)
	var b HealthBreakdown

	if total > 0 {
		b.Connectivity = clamp(1.0-math.Min(float64(topology.OrphanCount)/total, 0.2)*5.0, 0, 1)
		b.Fragility = clamp(1.0-math.Min(float64(bridges.APCount)/total, 0.05)*20.0, 0, 1)
	}
	if topology.NumComponents > 0 {
		b.Components = clamp(1.0/float64(topology.NumComponents), 0, 1)
	}
	if docs := float64(topology.DocumentNodes); docs > 0 {
		b.Attention = clamp(1.0-math.Min(float64(attention.PointCount)/docs, 0.25)*4.0, 0, 1)
	} else if total > 0 {
		b.Attention = 1
	}

	score := clamp(0.30*b.Connectivity+0.25*b.Components+0.25*b.Attention+0.20*b.Fragility, 0, 1)

	return &AnalysisReport{
		HealthScore:     score,
		HealthBreakdown: b,
		Topology:        topology,
		Attention:       attention,
		Bridges:         bridges,
	}
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(val, hi))
}
