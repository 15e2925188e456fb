// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one persona-driven analysis end to end: it
// extracts the query keywords, reads and segments every input document,
// ranks all sections together, and refines the top-ranked ones into the
// result contract.
//
// Problems with individual documents never stop a run. They are logged
// and recorded as warnings in the result metadata.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"

	"github.com/pdiddy/persona-digest/internal/keywords"
	"github.com/pdiddy/persona-digest/internal/refine"
	"github.com/pdiddy/persona-digest/internal/request"
	"github.com/pdiddy/persona-digest/internal/score"
	"github.com/pdiddy/persona-digest/internal/segment"
	"github.com/pdiddy/persona-digest/internal/source"
	"github.com/pdiddy/persona-digest/pkg/types"
)

// Pipeline holds the collaborators of a run. A Pipeline is safe for
// concurrent use as long as its Source is.
type Pipeline struct {
	src    source.Source
	cfg    types.PipelineConfig
	logger *log.Logger
	now    func() time.Time
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the clock used for the processing timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New returns a Pipeline reading documents from src. A nil logger
// discards log output.
func New(src source.Source, cfg types.PipelineConfig, logger *log.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Pipeline{src: src, cfg: cfg, logger: logger, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Analysis is the full outcome of a run before it is reduced to the
// result contract.
type Analysis struct {
	Query     types.Query
	Ranked    []types.ScoredSection
	Summaries []types.Summary
	Warnings  []types.Warning
}

// documentSections is the per-document outcome of read and segment.
type documentSections struct {
	sections []types.Section
	warning  *types.Warning
}

// Run validates req, analyses its documents, and assembles the result.
// Only a malformed request is an error.
func (p *Pipeline) Run(ctx context.Context, req types.Request) (*types.Result, error) {
	begin := time.Now()
	started := p.now()
	a, err := p.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	res := Assemble(req, a, started)
	p.logger.Info("analysis completed",
		"documents", len(req.Documents),
		"sections", len(a.Ranked),
		"warnings", len(a.Warnings),
		"elapsed", time.Since(begin).Round(time.Millisecond))
	return res, nil
}

// Analyze runs every stage and returns the intermediate products.
func (p *Pipeline) Analyze(ctx context.Context, req types.Request) (Analysis, error) {
	if err := request.Validate(req); err != nil {
		return Analysis{}, err
	}

	var a Analysis
	a.Query = keywords.Extract(req.PersonaText(), req.JobText(), p.cfg.Keywords)
	if a.Query.IsEmpty() {
		a.Warnings = append(a.Warnings, p.warn(types.WarningEmptyQuery, "", types.ErrEmptyQuery))
	}

	var all []types.Section
	for _, d := range p.readAll(ctx, req.DocumentIDs()) {
		if d.warning != nil {
			a.Warnings = append(a.Warnings, *d.warning)
			continue
		}
		all = append(all, d.sections...)
	}
	if len(all) == 0 {
		a.Warnings = append(a.Warnings, p.warn(types.WarningNoSections, "", fmt.Errorf("%w in any input document", types.ErrNoSections)))
	}

	a.Ranked = score.Rank(all, a.Query, p.cfg.Score)
	top := a.Ranked
	if len(top) > p.cfg.TopK {
		top = top[:p.cfg.TopK]
	}

	r := refine.New(a.Query, p.cfg.Refine)
	a.Summaries = make([]types.Summary, len(top))
	for i, ss := range top {
		a.Summaries[i] = r.Summarize(ss)
	}
	return a, nil
}

// Sections reads and segments a single document.
func (p *Pipeline) Sections(ctx context.Context, documentID string) ([]types.Section, error) {
	lines, err := p.src.Lines(ctx, documentID)
	if err != nil {
		return nil, err
	}
	sections, err := segment.Segment(documentID, lines, p.cfg.Segment)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoSections, documentID)
	}
	return sections, nil
}

// readAll reads and segments documents, in parallel when Workers > 1.
// Results are in input order either way.
func (p *Pipeline) readAll(ctx context.Context, ids []string) []documentSections {
	read := func(id *string) documentSections {
		return p.readOne(ctx, *id)
	}
	if p.cfg.Workers <= 1 {
		out := make([]documentSections, len(ids))
		for i := range ids {
			out[i] = read(&ids[i])
		}
		return out
	}
	return iter.Mapper[string, documentSections]{MaxGoroutines: p.cfg.Workers}.Map(ids, read)
}

func (p *Pipeline) readOne(ctx context.Context, id string) documentSections {
	p.logger.Debug("processing document", "document", id)
	sections, err := p.Sections(ctx, id)
	if err == nil {
		p.logger.Debug("segmented document", "document", id, "sections", len(sections))
		return documentSections{sections: sections}
	}

	kind := types.WarningSourceRead
	switch {
	case errors.Is(err, types.ErrMalformedLines):
		kind = types.WarningMalformedLines
	case errors.Is(err, types.ErrNoSections):
		kind = types.WarningNoSections
	}
	w := p.warn(kind, id, err)
	return documentSections{warning: &w}
}

func (p *Pipeline) warn(kind types.WarningKind, document string, err error) types.Warning {
	if document != "" {
		p.logger.Warn("skipping document", "kind", kind, "document", document, "err", err)
	} else {
		p.logger.Warn(err.Error(), "kind", kind)
	}
	return types.Warning{Kind: kind, Document: document, Message: err.Error()}
}

// Assemble reduces an analysis to the result contract. started is
// reported as the processing timestamp.
func Assemble(req types.Request, a Analysis, started time.Time) *types.Result {
	res := &types.Result{
		Metadata: types.Metadata{
			InputDocuments:      req.DocumentIDs(),
			Persona:             req.PersonaText(),
			JobToBeDone:         req.JobText(),
			ProcessingTimestamp: started.Format(time.RFC3339),
			Warnings:            a.Warnings,
		},
		ExtractedSections:  make([]types.ExtractedSection, len(a.Summaries)),
		SubsectionAnalysis: make([]types.SubsectionAnalysis, len(a.Summaries)),
	}
	for i, sum := range a.Summaries {
		sec := sum.Section.Section
		res.ExtractedSections[i] = types.ExtractedSection{
			Document:       sec.DocumentID,
			SectionTitle:   sec.Title,
			ImportanceRank: sum.Section.Rank,
			PageNumber:     sec.StartPage,
		}
		res.SubsectionAnalysis[i] = types.SubsectionAnalysis{
			Document:    sec.DocumentID,
			RefinedText: sum.Text(),
			PageNumber:  sec.StartPage,
		}
	}
	return res
}
