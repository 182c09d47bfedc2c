// Package codegen turns analyzed LaTeX content into Manim scene code by
// prompting a language model. The generated code is raw material for the
// downstream sanitation pipeline, not trusted output.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	genai "google.golang.org/genai"

	"github.com/duskmoor/mathcast/internal/analyzer"
)

// ErrUpstreamUnavailable signals that no model backend is configured or
// reachable. Callers short-circuit to a task error without retrying.
var ErrUpstreamUnavailable = errors.New("code generation backend unavailable")

// Request describes one generation job.
type Request struct {
	Latex    string
	Topic    string
	Analysis analyzer.Analysis
}

// Generator produces Manim scene source for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeminiGenerator calls the Gemini API through the official genai client.
type GeminiGenerator struct {
	cli         *genai.Client
	model       string
	temperature float32
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator builds a generator for the given model name. The genai
// client reads GEMINI_API_KEY from the environment when apiKey is empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiGenerator{cli: cli, model: model, temperature: 0.7}, nil
}

// Generate prompts the model and returns the scene source with markdown
// fences stripped.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if g.cli == nil {
		return "", ErrUpstreamUnavailable
	}
	temp := g.temperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: BuildPrompt(req)}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			Temperature:       &temp,
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate scene code: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate scene code: empty model response")
	}
	code := StripFences(resp.Candidates[0].Content.Parts[0].Text)
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("generate scene code: model returned no code")
	}
	return code, nil
}

var fenceRe = regexp.MustCompile("```(?:python)?\\s*")

// StripFences removes accidental markdown code fences around model output.
func StripFences(code string) string {
	code = fenceRe.ReplaceAllString(code, "")
	code = strings.ReplaceAll(code, "```", "")
	return strings.TrimSpace(code)
}
