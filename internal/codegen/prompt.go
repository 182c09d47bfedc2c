package codegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert Manim scene designer focused on VISUAL-FIRST mathematical storytelling.

CORE PRINCIPLES:
- Visuals introduce concepts; symbols summarize them.
- Show processes (graph drawing, area filling, refining rectangles, morphing to integral).
- Captions accumulate as a vertical stack. Do NOT overlap text; each new line appears below previous lines in a caption panel.
- Keep each caption line short. No large paragraphs.
- Only clear the scene (self.clear()) for major phase transitions. Otherwise keep visuals and keep adding to the caption panel.
- Prefer constructive animations: Create, FadeIn, Transform.

TECHNICAL REQUIREMENTS:
1. Define class LaTeXScene(Scene) with construct(self).
2. Use try/except for MathTex fallback to Text when necessary.
3. Maintain a caption panel anchored with .to_edge(DOWN) or .to_corner(DL); append new lines with next_to.
4. Use explicit positions for major math objects.
5. Keep code self-contained (no external assets).

CRITICAL API REQUIREMENTS (Manim v0.17+):
- Use 'color=' not 'colors=' in get_riemann_rectangles()
- Use 'Create()' not 'ShowCreation()'
- Use 'Transform()' not 'ReplacementTransform()'
- Parameter names: 'color', 'fill_color', 'stroke_color' (singular forms)

Return ONLY the Python code for the LaTeXScene class (no markdown fences).`

// BuildPrompt renders the user prompt for a request, folding in the
// analysis so the model gets category-specific visual guidance.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a VISUAL-FIRST Manim animation.\n\n")
	fmt.Fprintf(&b, "RAW CONTENT: %s\n", req.Latex)
	if req.Topic != "" {
		fmt.Fprintf(&b, "TOPIC: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "\nANALYSIS:\n")
	fmt.Fprintf(&b, "- Type: %s\n", req.Analysis.Category)
	fmt.Fprintf(&b, "- Complexity: %s\n", req.Analysis.Complexity)
	fmt.Fprintf(&b, "- Visual Concepts: %s\n", strings.Join(req.Analysis.VisualConcepts, ", "))
	fmt.Fprintf(&b, "- Educational Focus: %s\n", req.Analysis.Focus)
	b.WriteString(`
SCENE OBJECTIVE:
Let the viewer SEE the underlying mathematical process unfold before the symbolic form is finalized.

REQUIRED VISUAL FLOW (adapt if appropriate):
1. Axes / coordinate frame (only if relevant to the content).
2. Function curve (if an integral or function).
3. Domain / interval highlight (if bounds exist).
4. Shaded region (if area/accumulation).
5. Approximation objects (rectangles for integrals; bars for sums; tangent lines for derivatives; approach markers for limits).
6. Refinement or evolution.
7. Emergence of symbolic form.
8. Final evaluation or simplified symbolic expression.

Return ONLY the Python code for the LaTeXScene class with correct modern API.
`)
	return b.String()
}
