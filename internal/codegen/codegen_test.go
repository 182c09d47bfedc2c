package codegen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskmoor/mathcast/internal/analyzer"
)

type fakeGenerator struct {
	calls int
	code  string
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	f.calls++
	return f.code, f.err
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"python fence", "```python\nfrom manim import *\n```", "from manim import *"},
		{"bare fence", "```\nx = 1\n```", "x = 1"},
		{"no fence", "x = 1", "x = 1"},
		{"inline backticks", "x = 1\n```", "x = 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}

func TestBuildPrompt_IncludesAnalysis(t *testing.T) {
	req := Request{
		Latex: `\int_0^2 x^2 dx`,
		Topic: "Integration",
		Analysis: analyzer.Analysis{
			Category:         analyzer.CategoryIntegral,
			Complexity:       analyzer.ComplexityBasic,
			VisualConcepts:   []string{"function_graph", "area_under_curve"},
			Focus:            "integration as area accumulation",
		},
	}
	prompt := BuildPrompt(req)
	assert.Contains(t, prompt, `\int_0^2 x^2 dx`)
	assert.Contains(t, prompt, "Type: integral")
	assert.Contains(t, prompt, "Complexity: basic")
	assert.Contains(t, prompt, "function_graph, area_under_curve")
	assert.Contains(t, prompt, "TOPIC: Integration")
}

func TestBuildPrompt_OmitsEmptyTopic(t *testing.T) {
	prompt := BuildPrompt(Request{Latex: "a+b"})
	assert.NotContains(t, prompt, "TOPIC:")
}

func TestCachedGenerator_HitSkipsInner(t *testing.T) {
	inner := &fakeGenerator{code: "scene code"}
	c, err := NewCachedGenerator(inner, 4)
	require.NoError(t, err)

	req := Request{Latex: "a+b", Topic: "Algebra"}
	code, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "scene code", code)

	code, err = c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "scene code", code)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedGenerator_DistinctRequestsMiss(t *testing.T) {
	inner := &fakeGenerator{code: "scene code"}
	c, err := NewCachedGenerator(inner, 4)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), Request{Latex: "a+b"})
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), Request{Latex: "a-b"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGenerator_ErrorsNotCached(t *testing.T) {
	inner := &fakeGenerator{err: errors.New("boom")}
	c, err := NewCachedGenerator(inner, 4)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), Request{Latex: "a+b"})
	require.Error(t, err)

	inner.err = nil
	inner.code = "recovered"
	code, err := c.Generate(context.Background(), Request{Latex: "a+b"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", code)
	assert.Equal(t, 2, inner.calls)
}
