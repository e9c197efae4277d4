// main is the entry point for the faultline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/faultline-io/faultline/cmd"
	"github.com/faultline-io/faultline/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Warning: could not stop profiling:", perr)
	}
	runstore.CloseStores()

	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
