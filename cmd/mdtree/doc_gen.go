//go:build ignore
// +build ignore

package main

import (
	"log"

	mdtree "github.com/mithrel/mdtree/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := mdtree.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "MDTREE",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
