package analyzer

import (
	"regexp"
	"strings"
)

// expressionPatterns match the common LaTeX math delimiters. Each pattern has
// one capture group holding the expression body.
var expressionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\$\$([^$]+)\$\$`),
	regexp.MustCompile(`(?s)\$([^$]+)\$`),
	regexp.MustCompile(`(?s)\\\[(.+?)\\\]`),
	regexp.MustCompile(`(?s)\\\((.+?)\\\)`),
	regexp.MustCompile(`(?s)\\begin\{equation\}(.*?)\\end\{equation\}`),
	regexp.MustCompile(`(?s)\\begin\{align\}(.*?)\\end\{align\}`),
	regexp.MustCompile(`(?s)\\begin\{gather\}(.*?)\\end\{gather\}`),
}

// ExtractExpressions pulls delimited mathematical expressions out of free
// text. Duplicates are removed while preserving first-seen order.
func ExtractExpressions(text string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range expressionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			expr := strings.TrimSpace(match[1])
			if expr == "" || seen[expr] {
				continue
			}
			seen[expr] = true
			out = append(out, expr)
		}
	}
	return out
}
