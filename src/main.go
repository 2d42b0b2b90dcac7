package main

import (
	"fmt"
	"os"

	"github.com/itzCozi/xcrel/internal/runner"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(runner.ExitStatus(err))
	}
}
