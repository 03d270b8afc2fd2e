package main

import (
	"os"

	"github.com/dmoreno/storyquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
