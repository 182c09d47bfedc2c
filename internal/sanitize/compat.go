package sanitize

import (
	"regexp"
	"strings"
)

// apiRenames maps deprecated or misspelled animation-API names to their
// current forms. Applied as plain substring replacement, in order.
var apiRenames = []struct{ old, new string }{
	// Parameter spellings.
	{"colors=", "color="},
	{"colours=", "color="},

	// Renamed animation constructors.
	{"ShowCreation(", "Create("},
	{"DrawBorderThenFill(", "Create("},
	{"ShowIncreasingSubsets(", "Create("},
	{"ShowSubmobjectsOneByOne(", "Create("},

	// Transform variants that no longer exist or misbehave.
	{"ReplacementTransform(", "Transform("},
	{"TransformMatchingTex(", "Transform("},

	// Renamed methods.
	{".fade(", ".set_opacity("},
	{".scale_about_point(", ".scale("},
	{".rotate_about_origin(", ".rotate("},

	// British spellings of colour parameters.
	{"fill_colours=", "fill_color="},
	{"stroke_colours=", "stroke_color="},
	{"edge_colours=", "edge_color="},
	{"background_colour=", "background_color="},
	{"tex_colour=", "tex_color="},
}

var (
	coloursParamRe = regexp.MustCompile(`(\w+\([^)]*?)colours(\s*=\s*[^,)]+)`)
	setColourRe    = regexp.MustCompile(`\.set_colour\(`)
	getColourRe    = regexp.MustCompile(`\.get_colour\(`)
)

// fixAPICompat rewrites known API-naming drift in generated code. The rename
// table mirrors the renames the animation engine made across versions; the
// generated code routinely uses the old names.
func fixAPICompat(src Source) Source {
	out := make(Source, len(src))
	for i, line := range src {
		for _, r := range apiRenames {
			line = strings.ReplaceAll(line, r.old, r.new)
		}
		line = coloursParamRe.ReplaceAllString(line, "${1}color${2}")
		line = setColourRe.ReplaceAllString(line, ".set_color(")
		line = getColourRe.ReplaceAllString(line, ".get_color(")
		out[i] = line
	}
	return out
}
