package main

import (
	"os"

	"github.com/railfleet/locopredict/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
