// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Metadata describes the inputs of a run.
type Metadata struct {
	InputDocuments      []string  `json:"input_documents" yaml:"input_documents"`
	Persona             string    `json:"persona" yaml:"persona"`
	JobToBeDone         string    `json:"job_to_be_done" yaml:"job_to_be_done"`
	ProcessingTimestamp string    `json:"processing_timestamp" yaml:"processing_timestamp"`
	Warnings            []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ExtractedSection is one entry of the ranked top-K list.
type ExtractedSection struct {
	Document       string `json:"document" yaml:"document"`
	SectionTitle   string `json:"section_title" yaml:"section_title"`
	ImportanceRank int    `json:"importance_rank" yaml:"importance_rank"`
	PageNumber     int    `json:"page_number" yaml:"page_number"`
}

// SubsectionAnalysis is the refined text of the section at the same index
// in ExtractedSections.
type SubsectionAnalysis struct {
	Document    string `json:"document" yaml:"document"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
	PageNumber  int    `json:"page_number" yaml:"page_number"`
}

// Result is the output contract of one run.
type Result struct {
	Metadata           Metadata             `json:"metadata" yaml:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections" yaml:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis" yaml:"subsection_analysis"`
}
