// Package sanitize normalizes and repairs untrusted, model-generated scene
// source before it is allowed anywhere near execution. The sanitizer is a
// best-effort rewriter and never rejects; structural judgment is left to the
// validator and the execution gate.
package sanitize

import "strings"

// Source is an ordered sequence of text lines holding a candidate scene
// program. Every pipeline stage returns a new Source; none mutates its input.
type Source []string

// FromText splits raw text into a Source. Windows line endings are folded to
// plain newlines so that downstream line scans see uniform input.
func FromText(text string) Source {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Source(strings.Split(text, "\n"))
}

// Text joins the lines back into a single string.
func (s Source) Text() string {
	return strings.Join(s, "\n")
}

// Clone returns an independent copy of the source.
func (s Source) Clone() Source {
	out := make(Source, len(s))
	copy(out, s)
	return out
}

// DefectKind tags a structural finding reported by the validator.
type DefectKind string

const (
	DefectUnmatchedParens    DefectKind = "unmatched_parens"
	DefectMissingComma       DefectKind = "missing_comma"
	DefectMissingPositioning DefectKind = "missing_positioning"
	DefectMissingCleanup     DefectKind = "missing_cleanup"
	DefectIncompleteChain    DefectKind = "incomplete_chain"
	DefectDuplicateCenter    DefectKind = "duplicate_center"
)

// Defect is one tagged finding. Line is 1-based; zero means the finding
// applies to the source as a whole.
type Defect struct {
	Kind        DefectKind `json:"kind"`
	Line        int        `json:"line,omitempty"`
	Description string     `json:"description"`
}
