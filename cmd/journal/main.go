// Command journal is a trading journal for forex and index traders.
package main

import (
	"fmt"
	"os"

	"trade-journal/internal/cli"
	"trade-journal/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	if err := cli.NewRootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
