package gate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskmoor/mathcast/internal/sanitize"
)

const validScene = `from manim import *

class LaTeXScene(Scene):
    def construct(self):
        title = Text("Integration", font_size=48)
        title.to_edge(UP)
        self.play(Write(title))
        self.wait(1)
`

func TestGate_AdmitsValidScene(t *testing.T) {
	g := New()
	res := g.Check(sanitize.FromText(validScene))

	require.True(t, res.Admitted())
	assert.Empty(t, res.Reason)
	assert.Equal(t, validScene, res.Source.Text())
}

func TestGate_RepairsThenAdmits(t *testing.T) {
	// One unclosed paren: parse attempt 1 fails, the repair pass balances it,
	// parse attempt 2 succeeds.
	broken := `class LaTeXScene(Scene):
    def construct(self):
        self.play(Write(Text("hi"))
`
	g := New()
	res := g.Check(sanitize.FromText(broken))

	require.True(t, res.Admitted())
	assert.Contains(t, res.Source.Text(), `self.play(Write(Text("hi")))`)
}

func TestGate_RejectsUnrepairable(t *testing.T) {
	broken := `class LaTeXScene(Scene):
    def construct(self:
        if
`
	g := New()
	res := g.Check(sanitize.FromText(broken))

	require.False(t, res.Admitted())
	assert.Equal(t, StatusRejected, res.Status)
	assert.Contains(t, res.Reason, "syntax error")
}

func TestGate_RejectsMissingEntryConstruct(t *testing.T) {
	// Syntactically valid, but no scene class with a construct method.
	src := `x = 1
def helper():
    return 2
`
	g := New()
	res := g.Check(sanitize.FromText(src))

	require.False(t, res.Admitted())
	assert.Contains(t, res.Reason, "construct")
}

func TestGate_Termination(t *testing.T) {
	// Pathological inputs must resolve within the two-attempt ceiling; the
	// absence of a hang is the property under test.
	inputs := []string{
		"",
		"(((((((((",
		strings.Repeat("def f(:\n", 50),
		validScene,
	}
	g := New()
	for _, in := range inputs {
		res := g.Check(sanitize.FromText(in))
		assert.Contains(t, []Status{StatusAdmitted, StatusRejected}, res.Status)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	raw := `class LaTeXScene(Scene):
def construct(self):
title = Text("Sums" font_size=40)
self.play(Write(title))
`
	p := NewPipeline()
	res := p.Run(raw)

	require.True(t, res.Admitted(), "reason: %s", res.Reason)
	text := res.Source.Text()
	assert.Contains(t, text, `Text("Sums", font_size=40)`)
	assert.Contains(t, text, "    def construct(self):")
}

func TestPipeline_RejectionCarriesDefects(t *testing.T) {
	raw := `class LaTeXScene(Scene):
def construct(self):
a = Text("one"
b = Text("two")
c = Text("three")
if
`
	p := NewPipeline()
	res := p.Run(raw)

	require.False(t, res.Admitted())
	assert.NotEmpty(t, res.Defects)
}

func TestPipeline_InjectsAnimationForSilentScene(t *testing.T) {
	raw := `class LaTeXScene(Scene):
def construct(self):
x = 1
`
	p := NewPipeline()
	res := p.Run(raw)

	require.True(t, res.Admitted(), "reason: %s", res.Reason)
	assert.Contains(t, res.Source.Text(), "self.play(Write(title), run_time=1)")
}
