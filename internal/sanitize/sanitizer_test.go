package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messyScene = `from manim import *
class LaTeXScene(Scene):
def construct(self):
title = Text("Integration", font_size=48)
self.play(Write(title))
body = MathTex(r"\int_0^2 x^2\,dx")
self.play(Write(body))`

func TestSanitize_IndentationNormalized(t *testing.T) {
	out := Sanitize(FromText(messyScene))

	assert.Equal(t, "from manim import *", out[0])
	assert.Equal(t, "class LaTeXScene(Scene):", out[1])
	assert.Equal(t, "    def construct(self):", out[2])
	for _, line := range out[3:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(line, bodyIndent), "body line %q not indented", line)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		messyScene,
		"",
		"x = Text(\"plain\")",
		"class S(Scene):\n    def construct(self):\n        t = Text(\"a\")\n        u = Text(\"b\")",
	}
	for _, in := range inputs {
		once := Sanitize(FromText(in))
		twice := Sanitize(once)
		assert.Equal(t, once.Text(), twice.Text())
	}
}

func TestSanitize_PositioningInsertion(t *testing.T) {
	src := FromText(`class S(Scene):
def construct(self):
first = Text("hello")
self.play(Write(first))`)

	out := Sanitize(src)
	text := out.Text()

	// First object overall is centered, exactly once, immediately after.
	require.Contains(t, text, "first.center()")
	assert.Equal(t, 1, strings.Count(text, "first.center()"))

	idx := indexOfLine(out, `first = Text("hello")`)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, bodyIndent+"first.center()", out[idx+1])
}

func TestSanitize_PositioningRuleOrder(t *testing.T) {
	src := FromText(`class S(Scene):
def construct(self):
main_title = Text("Topic")
self.wait(1)
self.wait(1)
self.wait(1)
second = Text("more")
self.wait(1)
self.wait(1)
self.wait(1)
third = Text("even more")`)

	text := Sanitize(src).Text()

	// Title hint wins over first-object centering; the title still counts as
	// the first object overall, so later objects go to the bottom edge.
	assert.Contains(t, text, "main_title.to_edge(UP)")
	assert.NotContains(t, text, "main_title.center()")
	assert.Contains(t, text, "second.to_edge(DOWN)")
	assert.Contains(t, text, "third.to_edge(DOWN)")
}

func TestSanitize_NoInsertionWhenPositioned(t *testing.T) {
	src := FromText(`class S(Scene):
def construct(self):
label = Text("hello")
label.next_to(axes, DOWN)`)

	text := Sanitize(src).Text()
	assert.NotContains(t, text, "label.center()")
	assert.NotContains(t, text, "label.to_edge")
}

func TestSanitize_ExtraCentersRewritten(t *testing.T) {
	src := FromText(`class S(Scene):
def construct(self):
a = Text("one").center()
self.wait(1)
b = Text("two").center()
self.wait(1)
title_text = Text("three").center()`)

	out := Sanitize(src).Text()

	assert.Equal(t, 1, strings.Count(out, "a = Text(\"one\").center()"))
	assert.Contains(t, out, "b = Text(\"two\").to_edge(DOWN)")
	// Title-labeled objects keep their center call.
	assert.Contains(t, out, "title_text = Text(\"three\").center()")
}

func TestSanitize_APICompat(t *testing.T) {
	src := FromText(`self.play(ShowCreation(circle))
rects = axes.get_riemann_rectangles(graph, colors=[BLUE])
self.play(ReplacementTransform(a, b))
square.fade(0.5)`)

	out := Sanitize(src).Text()

	assert.Contains(t, out, "Create(circle)")
	assert.Contains(t, out, "color=[BLUE]")
	assert.Contains(t, out, "Transform(a, b)")
	assert.Contains(t, out, "square.set_opacity(0.5)")
	assert.NotContains(t, out, "ShowCreation")
}

func TestEnsureAnimation_InjectsWhenSilent(t *testing.T) {
	src := FromText(`class S(Scene):
    def construct(self):
        x = 1`)

	out := EnsureAnimation(src).Text()
	assert.Contains(t, out, "self.play(Write(title), run_time=1)")
}

func TestEnsureAnimation_LeavesAnimatedCodeAlone(t *testing.T) {
	src := FromText(`class S(Scene):
    def construct(self):
        self.play(Write(Text("hi")))`)

	out := EnsureAnimation(src)
	assert.Equal(t, src.Text(), out.Text())
}

func indexOfLine(src Source, want string) int {
	for i, line := range src {
		if strings.TrimSpace(line) == strings.TrimSpace(want) {
			return i
		}
	}
	return -1
}
