package sanitize

import (
	"regexp"
	"strings"
)

// The repair pass is a textual patcher, not a compiler. Each rule is
// deterministic and idempotent on its own output, and the rules run in a
// fixed order so later rules can clean up artifacts of earlier ones.
var (
	chainParenRe   = regexp.MustCompile(`\.to_edge\((\w+)\.to_corner`)
	callBearingRe  = regexp.MustCompile(`\w\(`)
	textKwargRe    = regexp.MustCompile(`(Text\([^)]*?['"])(\s+)(\w+\s*=)`)
	mathTexKwargRe = regexp.MustCompile(`(MathTex\([^)]*?['"])(\s+)(\w+\s*=)`)
	bareTextArgRe  = regexp.MustCompile(`Text\(([^"'()][^"'()]*[^"'(),])\s*\)`)
	globalKwargRe  = regexp.MustCompile(`([^,\s])\s+(\w+\s*=)`)
)

// Repair applies the emergency textual rewrites, in order: chained-call
// repair, trailing paren balancing, comma insertion after quoted arguments,
// trailing-period stripping, bare-argument quoting, and a final global
// keyword-argument comma pass.
func Repair(src Source) Source {
	out := make(Source, 0, len(src))

	for _, line := range src {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			out = append(out, line)
			continue
		}

		// 1. Reconnect chained positioning calls that lost a closing paren.
		// A chain that already reads .to_edge(X).to_corner is left alone.
		line = chainParenRe.ReplaceAllString(line, ".to_edge($1).to_corner")

		// 2. Balance trailing parens on call-bearing lines.
		if callBearingRe.MatchString(line) {
			if diff := strings.Count(line, "(") - strings.Count(line, ")"); diff > 0 {
				line += strings.Repeat(")", diff)
			}
		}

		// 3. Missing comma between a quoted argument and a keyword argument.
		line = textKwargRe.ReplaceAllString(line, "$1,$2$3")
		line = mathTexKwargRe.ReplaceAllString(line, "$1,$2$3")

		// 4. A statement accidentally terminated like prose.
		if strings.HasSuffix(strings.TrimRight(line, " \t"), ".") {
			line = strings.TrimRight(line, " \t")
			line = line[:len(line)-1]
		}

		// 5. Quote a bare first argument in a text construction call.
		line = bareTextArgRe.ReplaceAllString(line, `Text("$1")`)

		// 6. Final pass: any keyword argument preceded by a non-comma,
		// non-whitespace character gets a comma.
		line = globalKwargRe.ReplaceAllString(line, "$1, $2")

		out = append(out, line)
	}

	return out
}
