package main

import (
	"os"

	"github.com/shopd-dev/shopd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
