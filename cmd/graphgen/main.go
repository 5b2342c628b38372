// graphgen emits random multi-hypergraphs in the hedge-list form consumed
// by "graphsat batch", one graph per line.  Useful for sweeping graph
// families when hunting for small unsatisfiable graphs.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaibhavkarve/graphsat/pkg/cmd"
	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Int("count", 10, "Number of graphs to generate")
	rootCmd.Flags().Int("min-vertices", 3, "Minimum number of vertices")
	rootCmd.Flags().Int("max-vertices", 5, "Maximum number of vertices")
	rootCmd.Flags().Int("min-edges", 2, "Minimum number of hyperedges")
	rootCmd.Flags().Int("max-edges", 8, "Maximum number of hyperedges")
	rootCmd.Flags().Int("max-size", 3, "Maximum hyperedge size")
	rootCmd.Flags().Int64("seed", 0, "Random seed (0 = nondeterministic)")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graphgen",
	Short: "Random multi-hypergraph generator for graphsat.",
	Run: func(c *cobra.Command, args []string) {
		cfg := GenConfig{
			count:       cmd.GetInt(c, "count"),
			minVertices: cmd.GetInt(c, "min-vertices"),
			maxVertices: cmd.GetInt(c, "max-vertices"),
			minEdges:    cmd.GetInt(c, "min-edges"),
			maxEdges:    cmd.GetInt(c, "max-edges"),
			maxSize:     cmd.GetInt(c, "max-size"),
		}

		seed, err := c.Flags().GetInt64("seed")
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		rng := rand.New(rand.NewSource(seed))
		if seed == 0 {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}

		for i := 0; i < cfg.count; i++ {
			fmt.Println(mhgraph.Format(generateGraph(cfg, rng)))
		}
	},
}

// GenConfig encapsulates configuration related to graph generation.
type GenConfig struct {
	count       int
	minVertices int
	maxVertices int
	minEdges    int
	maxEdges    int
	maxSize     int
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}

	return lo + rng.Intn(hi-lo+1)
}

// generateGraph draws one random loop-free multi-hypergraph.
func generateGraph(cfg GenConfig, rng *rand.Rand) mhgraph.MHGraph {
	nVertices := between(rng, cfg.minVertices, cfg.maxVertices)
	nEdges := between(rng, cfg.minEdges, cfg.maxEdges)

	hedges := make([]mhgraph.HEdge, 0, nEdges)

	for len(hedges) < nEdges {
		size := between(rng, 2, cfg.maxSize)
		if size > nVertices {
			size = nVertices
		}

		perm := rng.Perm(nVertices)

		vs := make([]mhgraph.Vertex, size)
		for i := 0; i < size; i++ {
			vs[i] = mhgraph.Vertex(perm[i] + 1)
		}

		h, err := mhgraph.NewEdge(vs...)
		if err != nil {
			continue
		}

		hedges = append(hedges, h)
	}

	return mhgraph.NewMHGraph(hedges...)
}
