// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-digest/internal/artifact"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <database> [query]",
	Short: "Search the sections stored by past runs",
	Long: `Inspect searches a SQLite output written by analyze. Every word of the
query must appear in a section's title or refined text. Without a query
it lists the most recent sections. Results are ordered by run, newest
first, then by importance rank.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args[1:], " ")

	hits, err := artifact.Search(cmd.Context(), args[0], query, limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	formatHits(hits, cmd.OutOrStdout())
	return nil
}

func formatHits(hits []artifact.Hit, w io.Writer) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-4s  %-20s  %-36s  %-4s  %s\n",
		"Run", "Rank", "Document", "Section", "Page", "Refined text")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, h := range hits {
		fmt.Fprintf(w, "%-4d  %-4d  %-20s  %-36s  %-4d  %s\n",
			h.RunID, h.ImportanceRank, truncate(h.Document, 20), truncate(h.SectionTitle, 36),
			h.PageNumber, truncate(h.RefinedText, 40))
	}
	fmt.Fprintf(w, "\n%d results\n", len(hits))
}

func init() {
	inspectCmd.Flags().Int("limit", 20, "maximum number of results")
	inspectCmd.Flags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(inspectCmd)
}
