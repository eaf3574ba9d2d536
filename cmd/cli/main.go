// Package main is the entry point for the tour-quote CLI.
package main

import (
	"os"

	"tour-quote/cmd/cli/cmd"
	"tour-quote/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
