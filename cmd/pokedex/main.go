package main

import (
	"os"

	"github.com/pthm/pokedex/cmd/pokedex/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
