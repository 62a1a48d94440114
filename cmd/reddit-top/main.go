// Package main is the entry point for the reddit-top CLI.
package main

import (
	"os"

	"github.com/donaldgifford/reddit-top/cmd/reddit-top/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
