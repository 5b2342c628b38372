package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/rules"
)

// reduceCmd rewrites graphs using the known reduction rules.
var reduceCmd = &cobra.Command{
	Use:   "reduce [flags] graph(s)",
	Short: "Reduce multi-hypergraphs by the known rewrite rules.",
	Long: `Apply the catalogue of equisatisfiable rewrite rules to each graph given
	 as an argument.  With --tree, unfold the full rewrite tree and print its
	 leaves instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		ctx := context.Background()
		tree := GetFlag(cmd, "tree")

		for _, arg := range args {
			g, err := mhgraph.Parse(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", arg, err)
				os.Exit(1)
			}

			var reductions []mhgraph.MHGraph

			if tree {
				root, err := rules.MakeTree(ctx, g)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", arg, err)
					os.Exit(1)
				}

				reductions = root.Leaves()
			} else {
				reductions, err = rules.ReduceAll(ctx, g)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", arg, err)
					os.Exit(1)
				}
			}

			fmt.Printf("%s:\n", g)

			for _, r := range reductions {
				fmt.Printf("  %s\n", r)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(reduceCmd)
	reduceCmd.Flags().Bool("tree", false, "unfold the full rewrite tree and print its leaves")
}
