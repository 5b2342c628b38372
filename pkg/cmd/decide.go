package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

// decideCmd decides satisfiability of the graphs given as arguments.
var decideCmd = &cobra.Command{
	Use:   "decide [flags] graph(s)",
	Short: "Decide satisfiability of multi-hypergraphs.",
	Long: `Decide satisfiability of each multi-hypergraph given as an argument in the
	 form [[1,2],[1,3],[2,3]].  Decision is by recursive decomposition backed
	 by the external solver, or by brute force with --brute.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		ctx := context.Background()

		if timeout := GetDuration(cmd, "timeout"); timeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		decomposer := newDecomposer(cmd)
		failed := false

		for _, arg := range args {
			g, err := mhgraph.Parse(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", arg, err)

				failed = true

				continue
			}

			verdict, err := decomposer.Decompose(ctx, g)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", arg, err)

				failed = true

				continue
			}

			if verdict {
				fmt.Printf("%s: SAT\n", g)
			} else {
				fmt.Printf("%s: UNSAT\n", g)
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(decideCmd)
	addDecomposerFlags(decideCmd)
}
