package main

import (
	"os"

	"github.com/bankscrap-dev/bankscrap/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
