package tests

import (
	"testing"

	"cellscope/domain/stats"
	"cellscope/internal/testkit"
)

// Gold-standard checks: seeded synthetic populations with known ground
// truth must produce the expected verdicts.

func TestGoldStandard_SeparatedClustersDetected(t *testing.T) {
	cfg := testkit.DefaultConfig()
	cfg.Seed = 42
	p, err := testkit.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	groups := []stats.Group{
		{Key: "cluster_0", Values: p.ClusterValues(0)},
		{Key: "cluster_1", Values: p.ClusterValues(1)},
	}

	welch := NewWelchTTest().Run(groups)
	if welch.PValue >= 0.001 {
		t.Fatalf("expected emphatic separation from Welch, got p=%.4g", welch.PValue)
	}
	if welch.EffectClass != stats.EffectLarge {
		t.Fatalf("expected large Cohen's d for 5-sigma cluster gap, got %s (d=%.3f)",
			welch.EffectClass, *welch.EffectSize)
	}

	mann := NewMannWhitneyU().Run(groups)
	if mann.PValue >= 0.001 {
		t.Fatalf("expected emphatic separation from Mann-Whitney, got p=%.4g", mann.PValue)
	}
}

func TestGoldStandard_NoiseFieldStaysQuiet(t *testing.T) {
	cfg := testkit.DefaultConfig()
	cfg.Seed = 42
	p, err := testkit.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Noise is identically distributed across clusters; build groups from
	// the same cluster index sets used for expression.
	noiseOf := func(cluster int) []float64 {
		var out []float64
		for _, idx := range p.Clusters[cluster].Indices {
			out = append(out, p.Noise[idx])
		}
		return out
	}
	res := NewOneWayANOVA().Run([]stats.Group{
		{Key: "c0", Values: noiseOf(0)},
		{Key: "c1", Values: noiseOf(1)},
		{Key: "c2", Values: noiseOf(2)},
	})

	if res.PValue < 0.001 {
		t.Fatalf("identically distributed noise flagged significant: p=%.4g F=%.3f", res.PValue, res.Statistic)
	}
}

func TestGoldStandard_ThreeClustersViaRankTests(t *testing.T) {
	cfg := testkit.DefaultConfig()
	cfg.Seed = 7
	p, err := testkit.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	groups := []stats.Group{
		{Key: "c0", Values: p.ClusterValues(0)},
		{Key: "c1", Values: p.ClusterValues(1)},
		{Key: "c2", Values: p.ClusterValues(2)},
	}
	res := NewKruskalWallis().Run(groups)
	if res.PValue >= 0.001 {
		t.Fatalf("expected emphatic separation from Kruskal-Wallis, got p=%.4g", res.PValue)
	}
	if res.EffectClass != stats.EffectLarge {
		t.Fatalf("expected large epsilon-squared, got %s", res.EffectClass)
	}
}

func TestGoldStandard_CellTypeDistributionsDiffer(t *testing.T) {
	// Cluster membership and cell type coincide by construction, so the
	// per-cluster label distributions are maximally different.
	cfg := testkit.DefaultConfig()
	cfg.Seed = 42
	p, err := testkit.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	res := NewChiSquare().Run([]stats.Group{
		{Key: "c0", Labels: p.ClusterLabels(0)},
		{Key: "c1", Labels: p.ClusterLabels(1)},
	})
	if res.PValue >= 0.001 {
		t.Fatalf("expected emphatic chi-squared, got p=%.4g", res.PValue)
	}
	if res.EffectClass != stats.EffectLarge {
		t.Fatalf("expected large Cramer's V, got %s (V=%.3f)", res.EffectClass, *res.EffectSize)
	}
}
