package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair_BalancesTrailingParens(t *testing.T) {
	src := FromText(`self.play(Write(title)`)
	out := Repair(src)
	assert.Equal(t, "self.play(Write(title))", out.Text())
}

func TestRepair_InsertsCommaBeforeKeywordArg(t *testing.T) {
	src := FromText(`t = Text("Hello" font_size=24)`)
	out := Repair(src)
	assert.Equal(t, `t = Text("Hello", font_size=24)`, out.Text())
}

func TestRepair_MathTexCommaInsertion(t *testing.T) {
	src := FromText(`m = MathTex(r"\int" font_size=36)`)
	out := Repair(src)
	assert.Equal(t, `m = MathTex(r"\int", font_size=36)`, out.Text())
}

func TestRepair_ChainedPositioningCall(t *testing.T) {
	src := FromText(`line1.to_edge(DOWN.to_corner(DL)`)
	out := Repair(src)
	assert.Equal(t, `line1.to_edge(DOWN).to_corner(DL)`, out.Text())
}

func TestRepair_IntactChainUntouched(t *testing.T) {
	src := FromText(`line1.to_edge(UP).to_corner(DL)`)
	out := Repair(src)
	assert.Equal(t, `line1.to_edge(UP).to_corner(DL)`, out.Text())
}

func TestRepair_StripsTrailingPeriod(t *testing.T) {
	src := FromText(`self.wait(1).`)
	out := Repair(src)
	assert.Equal(t, `self.wait(1)`, out.Text())
}

func TestRepair_QuotesBareTextArgument(t *testing.T) {
	src := FromText(`t = Text(Hello there)`)
	out := Repair(src)
	assert.Equal(t, `t = Text("Hello there")`, out.Text())
}

func TestRepair_GlobalKeywordCommaPass(t *testing.T) {
	src := FromText(`self.play(Write(title) run_time=2)`)
	out := Repair(src)
	assert.Equal(t, `self.play(Write(title), run_time=2)`, out.Text())
}

func TestRepair_CommentsAndBlanksUntouched(t *testing.T) {
	src := FromText(`# trailing dot and paren ( stay.

x = 1`)
	out := Repair(src)
	assert.Equal(t, src.Text(), out.Text())
}

func TestRepair_RulesIdempotent(t *testing.T) {
	inputs := []string{
		`self.play(Write(title)`,
		`t = Text("Hello" font_size=24)`,
		`line1.to_edge(DOWN.to_corner(DL)`,
		`self.play(Write(title) run_time=2)`,
		`t = Text(Hello there)`,
	}
	for _, in := range inputs {
		once := Repair(FromText(in))
		twice := Repair(once)
		assert.Equal(t, once.Text(), twice.Text(), "input %q", in)
	}
}

func TestRepair_ValidLineUnchanged(t *testing.T) {
	src := FromText(`self.play(Write(title), run_time=2)`)
	out := Repair(src)
	assert.Equal(t, src.Text(), out.Text())
}
