package main

import (
	"os"

	"github.com/reglens/reglens-go/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
