// Package testkit generates seeded synthetic cell populations with
// known ground truth, used by gold-standard tests and demo mode.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"cellscope/domain/core"
	"cellscope/internal/aggregate"
)

// Population is a synthetic single-cell dataset: numeric expression
// fields plus coded categorical annotations, with group selections whose
// separations are known by construction.
type Population struct {
	Cells int
	// Expression is shifted per cluster so cross-cluster tests separate.
	Expression []float64
	// Noise has identical distribution in every cluster.
	Noise []float64
	// CellType codes into CellTypeLabels, with injected missing entries.
	CellType       []int
	CellTypeLabels []string
	// Clusters maps each cluster to its cell indices.
	Clusters []aggregate.GroupSelection
}

// Config controls population generation
type Config struct {
	Cells       int
	Clusters    int
	Seed        int64
	ClusterGap  float64 // expression mean shift between adjacent clusters
	MissingRate float64 // fraction of cells with NaN expression and missing type
}

// DefaultConfig returns a population large enough to exercise both
// aggregation paths when scaled up.
func DefaultConfig() Config {
	return Config{
		Cells:       6000,
		Clusters:    3,
		Seed:        42,
		ClusterGap:  5.0,
		MissingRate: 0.02,
	}
}

// Generate builds a population from the config.
func Generate(cfg Config) (*Population, error) {
	if cfg.Cells <= 0 {
		return nil, fmt.Errorf("cells must be > 0")
	}
	if cfg.Clusters <= 0 {
		return nil, fmt.Errorf("clusters must be > 0")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	p := &Population{
		Cells:          cfg.Cells,
		Expression:     make([]float64, cfg.Cells),
		Noise:          make([]float64, cfg.Cells),
		CellType:       make([]int, cfg.Cells),
		CellTypeLabels: typeLabels(cfg.Clusters),
		Clusters:       make([]aggregate.GroupSelection, cfg.Clusters),
	}
	for c := range p.Clusters {
		p.Clusters[c] = aggregate.GroupSelection{Key: core.GroupKey(fmt.Sprintf("cluster_%d", c))}
	}

	for i := 0; i < cfg.Cells; i++ {
		cluster := i % cfg.Clusters
		p.Clusters[cluster].Indices = append(p.Clusters[cluster].Indices, i)

		p.Noise[i] = rng.NormFloat64()
		if rng.Float64() < cfg.MissingRate {
			p.Expression[i] = math.NaN()
			p.CellType[i] = -1
			continue
		}
		p.Expression[i] = rng.NormFloat64() + float64(cluster)*cfg.ClusterGap
		p.CellType[i] = cluster
	}
	return p, nil
}

// Source assembles the population into an aggregation source.
func (p *Population) Source() *aggregate.Source {
	src := aggregate.NewSource()
	src.SetNumericField("expression", p.Expression)
	src.SetNumericField("noise", p.Noise)
	src.SetCategoricalField("cell_type", p.CellType, p.CellTypeLabels)
	return src
}

// ClusterValues extracts the finite expression values of one cluster,
// the shape hypothesis tests consume.
func (p *Population) ClusterValues(cluster int) []float64 {
	var out []float64
	for _, idx := range p.Clusters[cluster].Indices {
		v := p.Expression[idx]
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ClusterLabels extracts one cluster's cell type labels, skipping
// missing entries.
func (p *Population) ClusterLabels(cluster int) []string {
	var out []string
	for _, idx := range p.Clusters[cluster].Indices {
		code := p.CellType[idx]
		if code >= 0 && code < len(p.CellTypeLabels) {
			out = append(out, p.CellTypeLabels[code])
		}
	}
	return out
}

// WriteCSV writes the population as a header-plus-rows matrix, the
// format the excel adapter loads. Missing values are empty cells.
func (p *Population) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"expression", "noise", "cell_type"}); err != nil {
		return err
	}
	for i := 0; i < p.Cells; i++ {
		expr := ""
		if v := p.Expression[i]; !math.IsNaN(v) {
			expr = strconv.FormatFloat(v, 'f', 6, 64)
		}
		cellType := ""
		if code := p.CellType[i]; code >= 0 && code < len(p.CellTypeLabels) {
			cellType = p.CellTypeLabels[code]
		}
		row := []string{expr, strconv.FormatFloat(p.Noise[i], 'f', 6, 64), cellType}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func typeLabels(n int) []string {
	base := []string{"T-cell", "B-cell", "NK", "Monocyte", "Dendritic", "Plasma"}
	labels := make([]string, n)
	for i := range labels {
		if i < len(base) {
			labels[i] = base[i]
		} else {
			labels[i] = fmt.Sprintf("type_%d", i)
		}
	}
	return labels
}
