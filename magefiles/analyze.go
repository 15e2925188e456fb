//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Analyze builds the CLI and runs it on input/input.json, writing
// output/output.json. Documents are read from PDFs/.
func Analyze() error {
	mg.Deps(Build)
	if err := sh.RunV("bin/persona-digest", "analyze", "input/input.json", "output/output.json", "--docs-dir", "PDFs"); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

// Inspect lists the sections stored in output/runs.db.
func Inspect() error {
	mg.Deps(Build)
	return sh.RunV("bin/persona-digest", "inspect", "output/runs.db")
}
