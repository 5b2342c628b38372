package cmd

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vaibhavkarve/graphsat/pkg/rewrite"
	"github.com/vaibhavkarve/graphsat/pkg/sat"
)

// GetFlag gets an expected flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected int flag, or panics if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetDuration gets an expected duration flag, or panics if an error arises.
func GetDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// configureLogging raises the log level when verbose output is requested.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// newDecomposer builds a Decomposer from the shared command line flags.
func newDecomposer(cmd *cobra.Command) *rewrite.Decomposer {
	d := rewrite.NewDecomposer()

	if GetFlag(cmd, "brute") {
		d.Check = sat.CNFBruteForceSatCheck
	}

	if n := GetInt(cmd, "parallel"); n > 0 {
		d.Parallel = n
	}

	d.HyperbolicOnly = GetFlag(cmd, "hyperbolic")

	return d
}

func addDecomposerFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("brute", false, "decide CNFs by brute force instead of the solver")
	cmd.Flags().Int("parallel", 0, "maximum concurrent partition checks (0 = all CPUs)")
	cmd.Flags().Bool("hyperbolic", false, "restrict fan-out to balanced link partitions")
	cmd.Flags().Duration("timeout", 0, "abort after this duration (0 = no limit)")
}
