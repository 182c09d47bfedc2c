package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// validatePositioningOps are the placement calls the validator counts when
// comparing creations against positioning. Narrower than the sanitizer's set:
// a bare .shift is not considered deliberate placement.
var validatePositioningOps = []string{".to_edge", ".next_to", ".center"}

var (
	argListRe   = regexp.MustCompile(`\(([^)]+)\)`)
	brokenChain = regexp.MustCompile(`\.to_edge\([^)]*\.to_corner`)
)

// Validate scans src for structural defects and returns every finding. All
// checks run; none short-circuits. Validate never fails — an empty report
// means the source looks structurally plausible.
func Validate(src Source) []Defect {
	var defects []Defect

	text := src.Text()

	// Duplicate center placements fight over the same screen location.
	if n := strings.Count(text, ".center()"); n > 1 {
		defects = append(defects, Defect{
			Kind:        DefectDuplicateCenter,
			Description: fmt.Sprintf("multiple .center() calls found (%d)", n),
		})
	}

	creations := 0
	positionings := 0
	for _, line := range src {
		if _, ok := creationTarget(line); ok {
			creations++
		}
		for _, op := range validatePositioningOps {
			if strings.Contains(line, op) {
				positionings++
				break
			}
		}
	}

	if creations > positionings {
		defects = append(defects, Defect{
			Kind:        DefectMissingPositioning,
			Description: "text objects without explicit positioning found",
		})
	}

	if creations > 2 && !strings.Contains(text, "self.remove(") && !strings.Contains(text, "self.clear()") {
		defects = append(defects, Defect{
			Kind:        DefectMissingCleanup,
			Description: "no cleanup calls found for multiple text objects",
		})
	}

	defects = append(defects, validateLines(src)...)
	return defects
}

// validateLines runs the per-line lexical checks: paren balance, broken
// positioning chains, and argument lists that look like they lost a comma.
func validateLines(src Source) []Defect {
	var defects []Defect

	for i, line := range src {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		lineNo := i + 1

		opens := strings.Count(line, "(")
		closes := strings.Count(line, ")")
		if opens != closes {
			defects = append(defects, Defect{
				Kind:        DefectUnmatchedParens,
				Line:        lineNo,
				Description: fmt.Sprintf("unmatched parentheses on line %d", lineNo),
			})
		}

		if brokenChain.MatchString(line) {
			defects = append(defects, Defect{
				Kind:        DefectIncompleteChain,
				Line:        lineNo,
				Description: fmt.Sprintf("incomplete method chain on line %d", lineNo),
			})
		}

		if opens > 0 && closes > 0 {
			for _, m := range argListRe.FindAllStringSubmatch(line, -1) {
				if looksLikeMissingComma(m[1]) {
					defects = append(defects, Defect{
						Kind:        DefectMissingComma,
						Line:        lineNo,
						Description: fmt.Sprintf("possible missing comma in function call on line %d", lineNo),
					})
				}
			}
		}
	}
	return defects
}

// looksLikeMissingComma reports whether a parenthesized argument list holds a
// bare space-separated token sequence with no comma and no keyword argument.
// A single quoted string argument is exempt.
func looksLikeMissingComma(args string) bool {
	if !strings.Contains(args, " ") || strings.Contains(args, ",") || strings.Contains(args, "=") {
		return false
	}
	trimmed := strings.TrimSpace(args)
	return !strings.HasPrefix(trimmed, `"`) && !strings.HasPrefix(trimmed, "'")
}
