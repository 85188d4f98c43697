package main

import (
	"fmt"
	"os"

	"github.com/promptpack/promptpack/internal/cli"
)

// main is the entry point for the promptpack command.
func main() {
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", applicationExecutionError)
		os.Exit(1)
	}
}
