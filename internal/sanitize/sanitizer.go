package sanitize

import (
	"regexp"
	"strings"
)

const (
	methodIndent = "    "
	bodyIndent   = "        "
)

// positioningOps are the calls that count as explicit placement of a visual
// object. A labeled creation with none of these nearby gets one synthesized.
var positioningOps = []string{".to_edge", ".next_to", ".shift", ".center"}

// Sanitize normalizes indentation, repairs known API drift, and inserts
// missing positioning calls. It is a pure text transform with no failure
// mode, and it is idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(src Source) Source {
	out := normalizeIndentation(src)
	out = insertPositioning(out)
	out = rewriteExtraCenters(out)
	out = fixAPICompat(out)
	return out
}

// normalizeIndentation re-indents construct-starting lines to their canonical
// nesting level and forces method-body lines to at least the body depth.
// Lines already at or beyond the body depth are left untouched so that a
// second pass is a no-op.
func normalizeIndentation(src Source) Source {
	out := make(Source, 0, len(src))
	inMethod := false

	for _, line := range src {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			out = append(out, "")
			continue
		}

		switch {
		case strings.HasPrefix(stripped, "from ") || strings.HasPrefix(stripped, "import "):
			out = append(out, stripped)
		case strings.HasPrefix(stripped, "class "):
			out = append(out, stripped)
			inMethod = false
		case strings.HasPrefix(stripped, "def "):
			out = append(out, methodIndent+stripped)
			inMethod = true
		case inMethod:
			switch {
			case strings.HasPrefix(line, bodyIndent):
				out = append(out, line)
			case strings.HasPrefix(line, methodIndent):
				out = append(out, methodIndent+line)
			default:
				out = append(out, bodyIndent+stripped)
			}
		default:
			out = append(out, line)
		}
	}
	return out
}

// insertPositioning appends a synthesized positioning call after each labeled
// text-object creation that has no positioning call within the following
// three lines. Rule order: a name containing "title" is anchored to the top
// edge, the first object overall is centered, and every later object goes to
// the bottom edge.
func insertPositioning(src Source) Source {
	out := make(Source, 0, len(src))
	objects := 0

	for i, line := range src {
		out = append(out, line)

		name, ok := creationTarget(line)
		if !ok {
			continue
		}
		objects++

		if hasPositioningAhead(src, i) {
			continue
		}

		switch {
		case strings.Contains(strings.ToLower(name), "title"):
			out = append(out, bodyIndent+name+".to_edge(UP)")
		case objects == 1:
			out = append(out, bodyIndent+name+".center()")
		default:
			out = append(out, bodyIndent+name+".to_edge(DOWN)")
		}
	}
	return out
}

// rewriteExtraCenters rewrites every raw ".center()" call beyond the first to
// bottom-edge positioning, except on lines that reference a title object.
func rewriteExtraCenters(src Source) Source {
	out := make(Source, 0, len(src))
	centers := 0

	for _, line := range src {
		if strings.Contains(line, ".center()") {
			centers++
			if centers > 1 && !strings.Contains(strings.ToLower(line), "title") {
				line = strings.Replace(line, ".center()", ".to_edge(DOWN)", 1)
			}
		}
		out = append(out, line)
	}
	return out
}

var creationRe = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*=\s*(?:Text|MathTex)\(`)

// creationTarget reports the assigned name when the line creates a labeled
// text or math object.
func creationTarget(line string) (string, bool) {
	m := creationRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// hasPositioningAhead reports whether any of the three lines after index i
// applies a known positioning operation.
func hasPositioningAhead(src Source, i int) bool {
	end := i + 4
	if end > len(src) {
		end = len(src)
	}
	for j := i + 1; j < end; j++ {
		for _, op := range positioningOps {
			if strings.Contains(src[j], op) {
				return true
			}
		}
	}
	return false
}
