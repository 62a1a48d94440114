// Package main writes the reddit-top CLI reference as markdown or man pages.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/reddit-top/cmd/reddit-top/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated docs")
	format := flag.String("format", "markdown", "output format: markdown or man")
	flag.Parse()

	if err := generate(*output, *format); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}

func generate(dir, format string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var err error
	switch format {
	case "markdown":
		err = doc.GenMarkdownTree(root, dir)
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{
			Title:   "REDDIT-TOP",
			Section: "1",
			Source:  "reddit-top " + cmd.Version,
		}, dir)
	default:
		return fmt.Errorf("unknown format %q (want markdown or man)", format)
	}
	if err != nil {
		return fmt.Errorf("generating docs: %w", err)
	}
	return nil
}
