// Package summary defines the structured metadata block phase generators
// ask the LLM to embed in each generated page, and the permissive parser
// (C3) that separates it from the page body — falling back gracefully
// when the model drifts from the exact format.
package summary

// BlockDelimiter fences the structured metadata block: a line containing
// only this marker before and after a YAML-like key/value body. The rest
// of the response is the page content.
const BlockDelimiter = "---"

// Keys recognized inside a Files/Directories-phase metadata block.
// Unknown keys are ignored.
const (
	KeyPurpose      = "purpose"
	KeyLayer        = "layer"
	KeyDependencies = "dependencies"
	KeyPitfalls     = "pitfalls"
)

// Section headers the Q&A engine's answer-generation prompt instructs the
// model to emit.
const (
	AnswerSectionAnswer    = "# ANSWER"
	AnswerSectionCitations = "# CITATIONS"
)
