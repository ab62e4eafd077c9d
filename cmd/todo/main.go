// Package main is the entry point for the todo CLI.
package main

import (
	"fmt"
	"os"

	"tasklist/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCommand(version).Execute()
}
