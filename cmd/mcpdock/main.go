// Package main is the entry point for the mcpdock CLI.
package main

import (
	"os"

	"github.com/mcpdock/mcpdock/cmd/mcpdock/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
