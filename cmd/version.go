package cmd

import (
	"runtime"
	"sort"
	"strings"

	"github.com/faultline-io/faultline/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the build and capability details for diagnostics.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and capability information.",
	Long: `Display the faultline build details and compiled-in capabilities.

Shows the release version, git commit, build timestamp, Go runtime and
the detection algorithms and store backends this binary supports.

Include this output when reporting bugs; algorithm availability differs
between releases.`,
	Run: func(cmd *cobra.Command, _ []string) {
		algorithms := make([]string, len(schema.AllDetectionAlgorithms))
		for i, algo := range schema.AllDetectionAlgorithms {
			algorithms[i] = string(algo)
		}
		backends := make([]string, 0, len(schema.ValidDatabaseBackends))
		for backend := range schema.ValidDatabaseBackends {
			backends = append(backends, string(backend))
		}
		sort.Strings(backends)

		cmd.Printf("faultline %s (commit %s, built %s)\n", version, commit, date)
		cmd.Printf("  runtime:    %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  algorithms: %s\n", strings.Join(algorithms, ", "))
		cmd.Printf("  backends:   %s\n", strings.Join(backends, ", "))
	},
}
