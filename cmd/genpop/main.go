// Command genpop writes a synthetic single-cell population matrix for
// exercising the analysis server without a real dataset.
package main

import (
	"flag"
	"fmt"
	"os"

	"cellscope/internal/testkit"
)

func main() {
	out := flag.String("out", "population.csv", "output CSV path")
	cells := flag.Int("cells", 6000, "number of cells")
	clusters := flag.Int("clusters", 3, "number of clusters")
	gap := flag.Float64("gap", 5.0, "expression shift between adjacent clusters")
	missing := flag.Float64("missing", 0.02, "fraction of missing expression values")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	flag.Parse()

	if *cells <= 0 {
		fmt.Fprintln(os.Stderr, "cells must be > 0")
		os.Exit(2)
	}
	if *clusters <= 0 || *clusters > *cells {
		fmt.Fprintln(os.Stderr, "clusters must be in 1..cells")
		os.Exit(2)
	}

	pop, err := testkit.Generate(testkit.Config{
		Cells:       *cells,
		Clusters:    *clusters,
		Seed:        *seed,
		ClusterGap:  *gap,
		MissingRate: *missing,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate failed:", err)
		os.Exit(1)
	}

	if err := pop.WriteCSV(*out); err != nil {
		fmt.Fprintln(os.Stderr, "write failed:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d cells across %d clusters to %s\n", *cells, *clusters, *out)
}
