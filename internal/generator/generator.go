// Package generator orchestrates the full animation pipeline: analyze the
// LaTeX, prompt the model for scene code, push it through sanitation and
// the syntax gate, render, and publish the video. Progress is reported
// through the task store so clients can poll while the job runs.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/duskmoor/mathcast/internal/analyzer"
	"github.com/duskmoor/mathcast/internal/artifact"
	"github.com/duskmoor/mathcast/internal/codegen"
	"github.com/duskmoor/mathcast/internal/gate"
	"github.com/duskmoor/mathcast/internal/render"
	"github.com/duskmoor/mathcast/internal/task"
)

// Request is one animation job as submitted by a client.
type Request struct {
	Latex   string
	Topic   string
	Quality string
}

// job is one queued unit of work.
type job struct {
	t   task.Task
	req Request
}

// Service runs animation jobs. Submit enqueues on a buffered channel and
// returns at once; a fixed pool of workers drains the queue. Submission
// never waits on a running render.
type Service struct {
	store    task.Store
	gen      codegen.Generator
	pipeline *gate.Pipeline
	renderer render.Renderer
	videos   artifact.Store
	log      *zap.Logger

	jobs      chan job
	workers   *errgroup.Group
	closeOnce sync.Once
}

// Config wires the service's collaborators.
type Config struct {
	Store     task.Store
	Generator codegen.Generator
	Pipeline  *gate.Pipeline
	Renderer  render.Renderer
	Videos    artifact.Store
	Log       *zap.Logger
	// MaxWorkers bounds concurrent render jobs. Zero means 2.
	MaxWorkers int
	// QueueSize bounds how many submitted jobs may wait for a worker.
	// Zero means 128.
	QueueSize int
}

// New builds the service and starts its worker pool.
func New(cfg Config) *Service {
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = 2
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 128
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:    cfg.Store,
		gen:      cfg.Generator,
		pipeline: cfg.Pipeline,
		renderer: cfg.Renderer,
		videos:   cfg.Videos,
		log:      log,
		jobs:     make(chan job, queue),
		workers:  &errgroup.Group{},
	}
	for i := 0; i < workers; i++ {
		s.workers.Go(func() error {
			// Jobs run on a background context: an admitted job is never
			// cancelled by its submitting request going away.
			for j := range s.jobs {
				s.run(context.Background(), j.t, j.req)
			}
			return nil
		})
	}
	return s
}

// Submit registers a new task and enqueues the job. It returns the task ID
// without waiting for a worker; progress is visible through the task store.
// A full queue is an error, not a wait.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Latex) == "" {
		return "", fmt.Errorf("submit: empty latex content")
	}
	id := task.NewTaskID()
	t := task.Task{
		ID:        id,
		Status:    task.StatusStarting,
		Message:   "Task queued",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(t); err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	select {
	case s.jobs <- job{t: t, req: req}:
		return id, nil
	default:
		if err := s.store.Delete(id); err != nil {
			s.log.Error("discard overflow task", zap.String("task", id), zap.Error(err))
		}
		return "", fmt.Errorf("submit: job queue is full")
	}
}

// Wait closes the queue and blocks until all accepted jobs finish. Used on
// shutdown; Submit must not be called afterwards.
func (s *Service) Wait() {
	s.closeOnce.Do(func() { close(s.jobs) })
	_ = s.workers.Wait()
}

// run executes one job end to end, recording progress after each stage.
// Failures land in the task record rather than propagating.
func (s *Service) run(ctx context.Context, t task.Task, req Request) {
	log := s.log.With(zap.String("task", t.ID))
	fail := func(msg string, err error) {
		log.Warn("generation failed", zap.String("stage", msg), zap.Error(err))
		t.Status = task.StatusError
		t.Message = fmt.Sprintf("Video generation failed: %v", err)
		if err := s.store.Replace(t); err != nil {
			log.Error("record task failure", zap.Error(err))
		}
	}
	progress := func(status task.Status, msg string) {
		t.Status = status
		t.Message = msg
		if err := s.store.Replace(t); err != nil {
			log.Error("record task progress", zap.Error(err))
		}
	}

	progress(task.StatusGenerating, "Analyzing mathematical content...")
	analysis := analyzer.Analyze(req.Latex)
	log.Info("content analyzed",
		zap.String("category", string(analysis.Category)),
		zap.String("complexity", string(analysis.Complexity)))

	progress(task.StatusGenerating, "Generating educational content...")
	code, err := s.gen.Generate(ctx, codegen.Request{
		Latex:    req.Latex,
		Topic:    req.Topic,
		Analysis: analysis,
	})
	if err != nil {
		if errors.Is(err, codegen.ErrUpstreamUnavailable) {
			fail("codegen", fmt.Errorf("AI code generation unavailable: %w", err))
			return
		}
		fail("codegen", err)
		return
	}

	progress(task.StatusGenerating, "Optimizing animation structure...")
	result := s.pipeline.Run(code)
	if !result.Admitted() {
		fail("gate", fmt.Errorf("scene code rejected: %s", result.Reason))
		return
	}

	progress(task.StatusGenerating, "Rendering animation...")
	rendered, err := s.renderer.Render(ctx, render.Job{
		TaskID:  t.ID,
		Code:    result.Source.Text(),
		Quality: render.Normalize(req.Quality),
	})
	if err != nil {
		fail("render", err)
		return
	}

	url, err := s.videos.Publish(ctx, t.ID, rendered.VideoPath)
	if err != nil {
		fail("publish", err)
		return
	}

	t.Status = task.StatusCompleted
	t.Message = "Video generated successfully"
	t.VideoPath = rendered.VideoPath
	t.VideoURL = url
	if err := s.store.Replace(t); err != nil {
		log.Error("record task completion", zap.Error(err))
		return
	}
	log.Info("generation complete",
		zap.String("video", url),
		zap.Duration("render_time", rendered.Duration))
}
