// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentRef names one input document.
type DocumentRef struct {
	// Filename is resolved against the documents directory and doubles as
	// the document ID throughout the pipeline.
	Filename string `json:"filename" yaml:"filename" validate:"required"`

	// Title is an optional display title supplied by the caller.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Persona describes who is asking.
type Persona struct {
	Role *string `json:"role" yaml:"role" validate:"required"`
}

// JobToBeDone describes what the persona needs to accomplish.
type JobToBeDone struct {
	Task *string `json:"task" yaml:"task" validate:"required"`
}

// Request is the structured input of one run. Pointer fields distinguish a
// missing field (malformed) from an empty string (an empty query).
type Request struct {
	Documents   []DocumentRef `json:"documents" yaml:"documents" validate:"required,dive"`
	Persona     *Persona      `json:"persona" yaml:"persona" validate:"required"`
	JobToBeDone *JobToBeDone  `json:"job_to_be_done" yaml:"job_to_be_done" validate:"required"`
}

// DocumentIDs returns the document filenames in input order.
func (r Request) DocumentIDs() []string {
	ids := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		ids[i] = d.Filename
	}
	return ids
}

// PersonaText returns the persona role, or "" when absent.
func (r Request) PersonaText() string {
	if r.Persona == nil || r.Persona.Role == nil {
		return ""
	}
	return *r.Persona.Role
}

// JobText returns the job task, or "" when absent.
func (r Request) JobText() string {
	if r.JobToBeDone == nil || r.JobToBeDone.Task == nil {
		return ""
	}
	return *r.JobToBeDone.Task
}

// NewRequest builds a well-formed Request from plain values.
func NewRequest(documents []string, persona, job string) Request {
	refs := make([]DocumentRef, len(documents))
	for i, d := range documents {
		refs[i] = DocumentRef{Filename: d}
	}
	return Request{
		Documents:   refs,
		Persona:     &Persona{Role: &persona},
		JobToBeDone: &JobToBeDone{Task: &job},
	}
}
