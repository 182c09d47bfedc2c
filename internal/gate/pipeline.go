package gate

import "github.com/duskmoor/mathcast/internal/sanitize"

// Pipeline is the forward chain that takes raw generated text to a terminal
// admit/reject decision: sanitize → validate → conditional repair → gate.
// No stage calls back upstream, and the only retry loop is the gate's own
// bounded repair-and-reparse.
type Pipeline struct {
	gate *Gate
}

// NewPipeline creates a Pipeline with a fresh Gate.
func NewPipeline() *Pipeline {
	return &Pipeline{gate: New()}
}

// Run processes one block of raw generated text. The returned Result is
// always terminal: Admitted source is syntactically valid and carries a
// scene entry construct; Rejected results carry the reason and whatever
// defects the validator last reported.
func (p *Pipeline) Run(raw string) Result {
	src := sanitize.FromText(raw)
	src = sanitize.EnsureAnimation(src)
	src = sanitize.Sanitize(src)

	defects := sanitize.Validate(src)
	if len(defects) > 0 {
		src = sanitize.Repair(src)
	}

	result := p.gate.Check(src)
	if result.Status == StatusRejected && result.Defects == nil {
		result.Defects = defects
	}
	return result
}
