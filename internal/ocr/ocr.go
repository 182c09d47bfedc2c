// Package ocr extracts LaTeX from images of handwritten or typeset math
// by delegating to a MixTeX inference service over HTTP.
package ocr

import (
	"strings"
)

// PreprocessingLevel controls how aggressively the OCR backend cleans the
// image before inference.
type PreprocessingLevel string

const (
	PreprocessMinimal    PreprocessingLevel = "minimal"
	PreprocessModerate   PreprocessingLevel = "moderate"
	PreprocessAggressive PreprocessingLevel = "aggressive"
)

// NormalizeLevel maps arbitrary input to a supported level, defaulting to
// moderate.
func NormalizeLevel(s string) PreprocessingLevel {
	switch PreprocessingLevel(s) {
	case PreprocessMinimal, PreprocessAggressive:
		return PreprocessingLevel(s)
	default:
		return PreprocessModerate
	}
}

// ExtractRequest carries one OCR job. ImageData is base64, with or without
// a data URL prefix.
type ExtractRequest struct {
	ImageData          string             `json:"image_data"`
	PreprocessingLevel PreprocessingLevel `json:"preprocessing_level,omitempty"`
}

// ExtractResult is the classified OCR output. Raw holds the model output
// verbatim after LaTeX cleanup; Formulas and TextContent split it by
// whether it carries math notation.
type ExtractResult struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message"`
	Formulas           []string           `json:"formulas"`
	TextContent        []string           `json:"text_content"`
	Raw                string             `json:"raw_result"`
	PreprocessingLevel PreprocessingLevel `json:"preprocessing_level,omitempty"`
}

// StripDataURL removes a leading data:image/...;base64, prefix so the
// payload is plain base64.
func StripDataURL(imageData string) string {
	if !strings.HasPrefix(imageData, "data:image/") {
		return imageData
	}
	if i := strings.IndexByte(imageData, ','); i >= 0 {
		return imageData[i+1:]
	}
	return imageData
}

// CleanLaTeX normalizes raw model output: display-math brackets become
// align* environments and bare percent signs are escaped.
func CleanLaTeX(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, `\[`, `\begin{align*}`)
	s = strings.ReplaceAll(s, `\]`, `\end{align*}`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return s
}

// IsFormula reports whether the extracted text carries math notation.
func IsFormula(s string) bool {
	return strings.ContainsAny(s, `\{}^_$`)
}

// Classify builds the result for a cleaned extraction.
func Classify(latex string, level PreprocessingLevel) ExtractResult {
	if latex == "" {
		return ExtractResult{
			Success:            false,
			Message:            "No content detected in the image",
			Formulas:           []string{},
			TextContent:        []string{},
			PreprocessingLevel: level,
		}
	}
	res := ExtractResult{
		Success:            true,
		Message:            "Content extracted successfully",
		Formulas:           []string{},
		TextContent:        []string{},
		Raw:                latex,
		PreprocessingLevel: level,
	}
	if IsFormula(latex) {
		res.Formulas = []string{latex}
	} else {
		res.TextContent = []string{latex}
	}
	return res
}
