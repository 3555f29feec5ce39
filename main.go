package main

import (
	"os"

	"github.com/lta/newsbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
