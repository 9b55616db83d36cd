// Package main provides the entry point for the surrogate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/maliksaad1/ai-surrogate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
