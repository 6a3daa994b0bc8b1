// main is the entry point of the commitstat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/commitstat/cmd"
	"github.com/huangsam/commitstat/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// os.Exit skips deferred calls, so shut down explicitly
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to stop profiling: %v\n", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
