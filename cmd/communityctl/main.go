package main

import (
	"os"

	"github.com/ramrodpineapple01/autoexel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
