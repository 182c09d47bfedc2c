package sanitize

import "strings"

// defaultAnimation is spliced into a construct body that plays nothing, so
// that rendering always produces visible output.
var defaultAnimation = []string{
	bodyIndent + `title = Text("Mathematical Visualization", font_size=48)`,
	bodyIndent + `self.play(Write(title), run_time=1)`,
	bodyIndent + `self.wait(0.5)`,
	bodyIndent + `self.play(FadeOut(title), run_time=0.5)`,
	bodyIndent + `self.wait(0.3)`,
}

// EnsureAnimation injects a default title animation at the start of the
// construct method when the source contains no self.play call at all.
// Source that already animates is returned unchanged.
func EnsureAnimation(src Source) Source {
	if strings.Contains(src.Text(), "self.play(") {
		return src
	}

	out := make(Source, 0, len(src)+len(defaultAnimation))
	injected := false
	for _, line := range src {
		out = append(out, line)
		if !injected && strings.Contains(line, "def construct(") {
			out = append(out, defaultAnimation...)
			injected = true
		}
	}
	return out
}
