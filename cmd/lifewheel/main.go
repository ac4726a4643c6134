package main

import (
	"os"

	"github.com/okivie/lifewheel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
