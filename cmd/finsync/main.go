// Command finsync downloads categories, accounts and transactions from the
// aggregation API and writes one MySQL upsert file per table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
