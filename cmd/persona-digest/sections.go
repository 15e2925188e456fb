// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-digest/internal/pipeline"
	"github.com/pdiddy/persona-digest/internal/source"
	"github.com/pdiddy/persona-digest/pkg/types"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [documents...]",
	Short: "Show how documents are split into sections",
	Long: `Sections runs only the segmenter and prints every section found in the
given documents with its pages, word count, and vocabulary diversity. With
no arguments it lists every supported document in the documents directory.

Use it to check title detection on a new document collection before
running analyze.`,
	RunE: runSections,
}

// sectionRow is one printed section.
type sectionRow struct {
	Document  string  `json:"document"`
	Title     string  `json:"title"`
	StartPage int     `json:"start_page"`
	EndPage   int     `json:"end_page"`
	Untitled  bool    `json:"untitled,omitempty"`
	Words     int     `json:"word_count"`
	Diversity float64 `json:"vocabulary_diversity"`
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir, _ := cmd.Flags().GetString("docs-dir")
	dir := source.NewDir(docsDir)

	docs := args
	if len(docs) == 0 {
		if docs, err = dir.Documents(); err != nil {
			return err
		}
	}

	p := pipeline.New(dir, cfg, logger)
	var rows []sectionRow
	failed := 0
	for _, id := range docs {
		sections, err := p.Sections(cmd.Context(), id)
		if err != nil {
			logger.Warn("skipping document", "document", id, "err", err)
			failed++
			continue
		}
		rows = append(rows, toRows(sections)...)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return err
		}
	} else {
		formatSections(rows, cmd.OutOrStdout())
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) could not be segmented", failed)
	}
	return nil
}

func toRows(sections []types.Section) []sectionRow {
	rows := make([]sectionRow, len(sections))
	for i, s := range sections {
		rows[i] = sectionRow{
			Document:  s.DocumentID,
			Title:     s.Title,
			StartPage: s.StartPage,
			EndPage:   s.EndPage,
			Untitled:  s.Untitled,
			Words:     s.WordCount,
			Diversity: s.VocabularyDiversity,
		}
	}
	return rows
}

func formatSections(rows []sectionRow, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No sections found.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-40s  %-7s  %6s  %9s\n", "Document", "Title", "Pages", "Words", "Diversity")
	fmt.Fprintln(w, strings.Repeat("-", 94))
	for _, r := range rows {
		pages := fmt.Sprintf("%d", r.StartPage)
		if r.EndPage != r.StartPage {
			pages = fmt.Sprintf("%d-%d", r.StartPage, r.EndPage)
		}
		fmt.Fprintf(w, "%-24s  %-40s  %-7s  %6d  %9.3f\n",
			truncate(r.Document, 24), truncate(r.Title, 40), pages, r.Words, r.Diversity)
	}
	fmt.Fprintf(w, "\n%d sections\n", len(rows))
}

// truncate shortens s to max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	sectionsCmd.Flags().String("docs-dir", "PDFs", "directory holding the input documents")
	sectionsCmd.Flags().Bool("json", false, "print sections as JSON")

	rootCmd.AddCommand(sectionsCmd)
}
