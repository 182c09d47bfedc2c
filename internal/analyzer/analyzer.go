// Package analyzer classifies mathematical input text so that downstream
// prompt construction can steer scene generation. Classification is a pure
// function over the input: it never fails and never touches shared state.
package analyzer

import (
	"regexp"
	"strings"
)

// Category is the coarse mathematical topic label for a piece of input.
type Category string

const (
	CategoryIntegral        Category = "integral"
	CategoryFraction        Category = "fraction"
	CategorySummation       Category = "summation"
	CategorySquareRoot      Category = "square_root"
	CategoryQuadratic       Category = "quadratic"
	CategoryEquationSolving Category = "equation_solving"
	CategoryDerivative      Category = "derivative"
	CategoryLimit           Category = "limit"
	CategoryUnknown         Category = "unknown"
)

// Complexity grades how much notation the input carries.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// Analysis is the result of classifying one input. It is derived once per
// request and consumed read-only by prompt construction.
type Analysis struct {
	Category       Category   `json:"category"`
	Complexity     Complexity `json:"complexity"`
	VisualConcepts []string   `json:"visual_concepts"`
	KeyOperations  []string   `json:"key_operations"`
	Focus          string     `json:"educational_focus"`
}

// maxKeyOperations bounds how many operator tokens are reported.
const maxKeyOperations = 5

// categoryRule pairs a detection pattern with the visual guidance attached
// to its category. Rules are checked in order; the first match wins.
type categoryRule struct {
	category Category
	pattern  *regexp.Regexp
	lower    bool // match against the lowercased input
	concepts []string
	focus    string
}

var categoryRules = []categoryRule{
	{
		category: CategoryIntegral,
		pattern:  regexp.MustCompile(`\\int|∫`),
		concepts: []string{"function_graph", "area_under_curve", "riemann_sums"},
		focus:    "Show the curve, highlight the region, animate rectangles becoming integral",
	},
	{
		category: CategoryFraction,
		pattern:  regexp.MustCompile(`\\frac|\\dfrac|/`),
		concepts: []string{"division_visualization", "part_whole_relationship"},
		focus:    "Visual division, pie charts, or bar representations",
	},
	{
		category: CategorySummation,
		pattern:  regexp.MustCompile(`\\sum|Σ`),
		concepts: []string{"sequence_visualization", "accumulation"},
		focus:    "Show terms adding up step by step",
	},
	{
		category: CategorySquareRoot,
		pattern:  regexp.MustCompile(`\\sqrt|√`),
		concepts: []string{"geometric_squares", "number_line"},
		focus:    "Geometric interpretation of square roots",
	},
	{
		category: CategoryQuadratic,
		pattern:  regexp.MustCompile(`\^.*2|x\s*\*\s*x|squared`),
		concepts: []string{"parabola", "vertex_form", "transformations"},
		focus:    "Show parabola formation and key features",
	},
	{
		category: CategoryEquationSolving,
		pattern:  regexp.MustCompile(`=.*solve|find|calculate|evaluate`),
		lower:    true,
		concepts: []string{"algebraic_steps", "balance_visualization"},
		focus:    "Show equation balancing and step-by-step solving",
	},
	{
		category: CategoryDerivative,
		pattern:  regexp.MustCompile(`derivative|\\frac\{d\}|d/dx|f'`),
		concepts: []string{"slope_visualization", "tangent_lines", "rate_of_change"},
		focus:    "Show slope changes and tangent line meaning",
	},
	{
		category: CategoryLimit,
		pattern:  regexp.MustCompile(`limit|\\lim|approaches`),
		concepts: []string{"approaching_behavior", "graph_analysis"},
		focus:    "Animate the approach to a limiting value",
	},
}

var (
	notationTokenRe = regexp.MustCompile(`\\[a-zA-Z]+`)
	operationRe     = regexp.MustCompile(`[+\-*/=<>≤≥∫∑∏]|\\[a-zA-Z]+`)
)

// Analyze classifies text into an Analysis. Unmatched input yields the
// unknown category with basic complexity; the function always returns a
// usable value.
func Analyze(text string) Analysis {
	a := Analysis{
		Category:   CategoryUnknown,
		Complexity: ComplexityBasic,
		Focus:      "explanation",
	}

	lowered := strings.ToLower(text)
	for _, rule := range categoryRules {
		subject := text
		if rule.lower {
			subject = lowered
		}
		if rule.pattern.MatchString(subject) {
			a.Category = rule.category
			a.VisualConcepts = append([]string(nil), rule.concepts...)
			a.Focus = rule.focus
			break
		}
	}

	// Complexity tier from the count of recognized notation tokens.
	switch n := len(notationTokenRe.FindAllString(text, -1)); {
	case n > 5:
		a.Complexity = ComplexityAdvanced
	case n > 2:
		a.Complexity = ComplexityIntermediate
	}

	ops := operationRe.FindAllString(text, -1)
	if len(ops) > maxKeyOperations {
		ops = ops[:maxKeyOperations]
	}
	a.KeyOperations = ops

	return a
}
