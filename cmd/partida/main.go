package main

import (
	"os"

	"github.com/partida-dev/partida/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
