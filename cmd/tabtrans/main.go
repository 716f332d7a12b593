package main

import (
	"os"

	"codeberg.org/snonux/tabtrans/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Execute command
	os.Exit(cli.Execute(rootCmd))
}
