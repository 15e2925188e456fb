// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-digest/internal/artifact"
)

const guide = `Introduction

This guide covers the south of France for travellers.
It has useful tips for visitors of every budget.
Most towns are close to the sea and easy to reach.
Trains connect the larger cities several times a day.

Group Activities

A trip with college friends works best with shared plans.
Book a group kayak tour along the coast in the morning.
Plan a cooking class so the group can share a meal together.
Friends often enjoy a night out in the old port of Marseille.
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "guide.txt"), []byte(guide), 0o644))

	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"documents": [{"filename": "guide.txt"}, {"filename": "absent.pdf"}],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a trip of 4 days for a group of 10 college friends."}
	}`), 0o644))
	output := filepath.Join(dir, "out", "result.json")

	stdout, err := execute(t, "analyze", input, output, "--docs-dir", docs, "--top-k", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Output saved to")

	res, err := artifact.Read(output)
	require.NoError(t, err)
	require.Len(t, res.ExtractedSections, 1)
	assert.Equal(t, "Group Activities", res.ExtractedSections[0].SectionTitle)
	assert.Equal(t, "guide.txt", res.ExtractedSections[0].Document)
	require.Len(t, res.Metadata.Warnings, 1)
	assert.Equal(t, "absent.pdf", res.Metadata.Warnings[0].Document)
}

func TestAnalyzeCommandMalformedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"documents": []}`), 0o644))

	_, err := execute(t, "analyze", input, filepath.Join(dir, "out.json"), "--docs-dir", dir)
	assert.ErrorContains(t, err, "malformed input")
}

func TestInspectCommandMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, "inspect", path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoFileExists(t, path)
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "persona-digest dev\n", stdout)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Côte d'...", truncate("Côte d'Azur guide", 10))
}
