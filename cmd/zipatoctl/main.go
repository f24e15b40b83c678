package main

import (
	"os"

	"github.com/johnbrannstrom/zipatoctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
