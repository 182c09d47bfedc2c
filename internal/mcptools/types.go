package mcptools

// GenerateAnimationInput is the input for the generate_animation MCP tool.
type GenerateAnimationInput struct {
	LatexContent string `json:"latexContent" jsonschema:"the LaTeX math content to animate"`
	Topic        string `json:"topic,omitempty" jsonschema:"optional topic label shown in the animation"`
	Quality      string `json:"quality,omitempty" jsonschema:"render quality: low_quality, medium_quality, high_quality (default: medium_quality)"`
}

// GenerateAnimationOutput is the result of the generate_animation MCP tool.
type GenerateAnimationOutput struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// TaskStatusInput is the input for the get_task_status MCP tool.
type TaskStatusInput struct {
	TaskID string `json:"taskId" jsonschema:"the task ID returned by generate_animation"`
}

// TaskStatusOutput is the result of the get_task_status MCP tool.
type TaskStatusOutput struct {
	TaskID   string `json:"taskId"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// AnalyzeContentInput is the input for the analyze_content MCP tool.
type AnalyzeContentInput struct {
	LatexContent string `json:"latexContent" jsonschema:"the LaTeX math content to classify"`
}

// AnalyzeContentOutput is the result of the analyze_content MCP tool.
type AnalyzeContentOutput struct {
	Category         string   `json:"category"`
	Complexity       string   `json:"complexity"`
	VisualConcepts   []string `json:"visualConcepts"`
	KeyOperations    []string `json:"keyOperations"`
	EducationalFocus string   `json:"educationalFocus"`
	Expressions      []string `json:"expressions"`
}
