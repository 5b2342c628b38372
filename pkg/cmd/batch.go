package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/rewrite"
)

// batchCmd decides every graph listed in the given files, one graph per
// line.  A malformed or failing line is reported and skipped, so a single
// bad input never aborts the run.
var batchCmd = &cobra.Command{
	Use:   "batch [flags] file(s)",
	Short: "Decide satisfiability of every graph listed in a file.",
	Long: `Read multi-hypergraphs from the given files, one per line in the form
	 [[1,2],[1,3]], and decide each.  Blank lines and lines starting with #
	 are skipped.`,
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
		sat, unsat, failed := 0, 0, 0

		for _, filename := range args {
			file, err := os.Open(filename)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			scanner := bufio.NewScanner(file)
			lineno := 0

			for scanner.Scan() {
				lineno++

				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}

				verdict, err := decideLine(ctx, decomposer, line)
				if err != nil {
					log.Errorf("%s:%d: %s", filename, lineno, err)

					failed++

					continue
				}

				if verdict {
					fmt.Printf("%s: SAT\n", line)

					sat++
				} else {
					fmt.Printf("%s: UNSAT\n", line)

					unsat++
				}
			}

			if err := scanner.Err(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}

			file.Close()
		}

		fmt.Printf("%d sat, %d unsat, %d failed\n", sat, unsat, failed)

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func decideLine(ctx context.Context, d *rewrite.Decomposer, line string) (bool, error) {
	g, err := mhgraph.Parse(line)
	if err != nil {
		return false, err
	}

	return d.Decompose(ctx, g)
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addDecomposerFlags(batchCmd)
}
