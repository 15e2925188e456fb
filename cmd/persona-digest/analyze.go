// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-digest/internal/artifact"
	"github.com/pdiddy/persona-digest/internal/pipeline"
	"github.com/pdiddy/persona-digest/internal/request"
	"github.com/pdiddy/persona-digest/internal/source"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input> <output>",
	Short: "Rank and summarise document sections for a persona and job",
	Long: `Analyze reads a request file (JSON or YAML) naming the documents, the
persona role, and the job to be done. Each document is read from the
documents directory, split into sections, and ranked. The top sections and
their refined text are written to the output file.

The output format follows the output extension (.json, .yaml, .db) unless
--format is given. A .db output accumulates runs for the inspect command.

Unreadable documents are skipped and listed as warnings in the output
metadata. Only a malformed request stops the run.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	req, err := request.Load(inputPath)
	if err != nil {
		return err
	}

	docsDir, _ := cmd.Flags().GetString("docs-dir")
	p := pipeline.New(source.NewDir(docsDir), cfg, logger)

	res, err := p.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if err := artifact.Write(cmd.Context(), outputPath, format, res); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Output saved to %s (%d sections, %d warnings)\n",
		outputPath, len(res.ExtractedSections), len(res.Metadata.Warnings))
	return nil
}

func init() {
	analyzeCmd.Flags().String("docs-dir", "PDFs", "directory holding the input documents")
	analyzeCmd.Flags().String("format", "", "output format: json, yaml, or sqlite (default: from output extension)")
	analyzeCmd.Flags().Int("top-k", 5, "number of ranked sections to report")
	analyzeCmd.Flags().Int("workers", 1, "documents read in parallel")

	rootCmd.AddCommand(analyzeCmd)
}
