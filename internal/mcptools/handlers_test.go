package mcptools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskmoor/mathcast/internal/task"
)

func TestAnalyzeContent(t *testing.T) {
	svc := NewAnimationService(nil, task.NewMemStore())

	_, out, err := svc.AnalyzeContent(context.Background(), nil, AnalyzeContentInput{
		LatexContent: `Compute $\int_0^2 x^2\,dx$`,
	})
	require.NoError(t, err)
	assert.Equal(t, "integral", out.Category)
	assert.Contains(t, out.VisualConcepts, "area_under_curve")
	assert.Equal(t, []string{`\int_0^2 x^2\,dx`}, out.Expressions)
}

func TestAnalyzeContent_RequiresInput(t *testing.T) {
	svc := NewAnimationService(nil, task.NewMemStore())
	_, _, err := svc.AnalyzeContent(context.Background(), nil, AnalyzeContentInput{})
	assert.Error(t, err)
}

func TestGetTaskStatus(t *testing.T) {
	store := task.NewMemStore()
	require.NoError(t, store.Create(task.Task{
		ID:        "t1",
		Status:    task.StatusCompleted,
		Message:   "Video generated successfully",
		CreatedAt: time.Now(),
		VideoURL:  "/api/videos/t1.mp4",
	}))
	svc := NewAnimationService(nil, store)

	_, out, err := svc.GetTaskStatus(context.Background(), nil, TaskStatusInput{TaskID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, "/api/videos/t1.mp4", out.VideoURL)

	_, _, err = svc.GetTaskStatus(context.Background(), nil, TaskStatusInput{TaskID: "ghost"})
	assert.Error(t, err)
	_, _, err = svc.GetTaskStatus(context.Background(), nil, TaskStatusInput{})
	assert.Error(t, err)
}

func TestGenerateAnimation_RequiresInput(t *testing.T) {
	svc := NewAnimationService(nil, task.NewMemStore())
	_, _, err := svc.GenerateAnimation(context.Background(), nil, GenerateAnimationInput{})
	assert.Error(t, err)
}
