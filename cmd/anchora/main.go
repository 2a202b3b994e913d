// Command anchora is the entry point for the Anchora CLI.
package main

import (
	"os"

	"github.com/custodia-labs/anchora/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
