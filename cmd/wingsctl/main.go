package main

import (
	"os"

	"github.com/ThatoMphasane/thato/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
