package main

import (
	"os"

	"github.com/kontor-dev/kontor/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
