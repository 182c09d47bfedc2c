package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/duskmoor/mathcast/internal/analyzer"
	"github.com/duskmoor/mathcast/internal/generator"
	"github.com/duskmoor/mathcast/internal/task"
)

// AnimationService holds the collaborators used by MCP tool handlers.
type AnimationService struct {
	svc   *generator.Service
	store task.Store
}

// NewAnimationService creates an AnimationService.
func NewAnimationService(svc *generator.Service, store task.Store) *AnimationService {
	return &AnimationService{svc: svc, store: store}
}

// GenerateAnimation submits a generation job and returns its task ID.
func (s *AnimationService) GenerateAnimation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateAnimationInput,
) (*mcp.CallToolResult, GenerateAnimationOutput, error) {
	if strings.TrimSpace(input.LatexContent) == "" {
		return nil, GenerateAnimationOutput{}, fmt.Errorf("latexContent is required")
	}
	id, err := s.svc.Submit(ctx, generator.Request{
		Latex:   input.LatexContent,
		Topic:   input.Topic,
		Quality: input.Quality,
	})
	if err != nil {
		return nil, GenerateAnimationOutput{}, err
	}
	return nil, GenerateAnimationOutput{TaskID: id, Status: "started"}, nil
}

// GetTaskStatus reports the current state of a generation task.
func (s *AnimationService) GetTaskStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskStatusInput,
) (*mcp.CallToolResult, TaskStatusOutput, error) {
	if input.TaskID == "" {
		return nil, TaskStatusOutput{}, fmt.Errorf("taskId is required")
	}
	t, err := s.store.Get(input.TaskID)
	if err != nil {
		return nil, TaskStatusOutput{}, err
	}
	return nil, TaskStatusOutput{
		TaskID:   t.ID,
		Status:   string(t.Status),
		Message:  t.Message,
		VideoURL: t.VideoURL,
	}, nil
}

// AnalyzeContent classifies LaTeX content without generating anything.
func (s *AnimationService) AnalyzeContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeContentInput,
) (*mcp.CallToolResult, AnalyzeContentOutput, error) {
	if strings.TrimSpace(input.LatexContent) == "" {
		return nil, AnalyzeContentOutput{}, fmt.Errorf("latexContent is required")
	}
	a := analyzer.Analyze(input.LatexContent)
	return nil, AnalyzeContentOutput{
		Category:         string(a.Category),
		Complexity:       string(a.Complexity),
		VisualConcepts:   a.VisualConcepts,
		KeyOperations:    a.KeyOperations,
		EducationalFocus: a.Focus,
		Expressions:      analyzer.ExtractExpressions(input.LatexContent),
	}, nil
}
