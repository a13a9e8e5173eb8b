// Package main is the entry point for the assay CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/assay/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
