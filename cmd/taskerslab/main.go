// Package main provides the taskerslab command.
package main

import (
	"os"

	"github.com/leapstack-labs/taskerslab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
