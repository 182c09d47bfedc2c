// Package render turns admitted Manim scene code into video files by
// invoking the manim CLI.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Quality selects the manim render quality preset.
type Quality string

const (
	QualityLow    Quality = "low_quality"
	QualityMedium Quality = "medium_quality"
	QualityHigh   Quality = "high_quality"
)

// qualityFlags maps quality presets to manim CLI flags. Unknown values
// fall back to medium.
var qualityFlags = map[Quality]string{
	QualityLow:    "-ql",
	QualityMedium: "-qm",
	QualityHigh:   "-qh",
}

// Normalize maps an arbitrary quality string to a supported preset.
func Normalize(q string) Quality {
	switch Quality(q) {
	case QualityLow, QualityHigh:
		return Quality(q)
	default:
		return QualityMedium
	}
}

// Job is one render request. SceneName is the class manim should render.
type Job struct {
	TaskID    string
	Code      string
	SceneName string
	Quality   Quality
}

// Result reports where the rendered video landed.
type Result struct {
	VideoPath string
	Duration  time.Duration
}

// Renderer produces a video from scene code.
type Renderer interface {
	Render(ctx context.Context, job Job) (*Result, error)
}

// ManimRunner shells out to the manim binary. Each job gets a scratch
// directory for the scene file and media output; the final video is copied
// to OutputDir as <task-id>.mp4.
type ManimRunner struct {
	Binary    string
	OutputDir string
	Timeout   time.Duration
	Log       *zap.Logger
}

var _ Renderer = (*ManimRunner)(nil)

// NewManimRunner builds a runner writing videos under outputDir.
func NewManimRunner(outputDir string, log *zap.Logger) *ManimRunner {
	return &ManimRunner{
		Binary:    "manim",
		OutputDir: outputDir,
		Timeout:   5 * time.Minute,
		Log:       log,
	}
}

// Render writes the scene to disk, runs manim, and copies the produced
// mp4 into the output directory.
func (r *ManimRunner) Render(ctx context.Context, job Job) (*Result, error) {
	if job.SceneName == "" {
		job.SceneName = "LaTeXScene"
	}
	quality, ok := qualityFlags[job.Quality]
	if !ok {
		quality = qualityFlags[QualityMedium]
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("render %s: %w", job.TaskID, err)
	}
	workDir, err := os.MkdirTemp("", "mathcast-render-*")
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.TaskID, err)
	}
	defer os.RemoveAll(workDir)

	scenePath := filepath.Join(workDir, "scene.py")
	if err := os.WriteFile(scenePath, []byte(job.Code), 0o644); err != nil {
		return nil, fmt.Errorf("render %s: write scene: %w", job.TaskID, err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mediaDir := filepath.Join(workDir, "media")
	cmd := exec.CommandContext(execCtx, r.Binary,
		"render", quality,
		"--format", "mp4",
		"--media_dir", mediaDir,
		scenePath, job.SceneName,
	)
	cmd.Dir = workDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("render %s: timed out after %s", job.TaskID, timeout)
		}
		if r.Log != nil {
			r.Log.Error("manim render failed",
				zap.String("task", job.TaskID),
				zap.String("stderr", tail(stderr.String(), 2000)),
				zap.Error(runErr))
		}
		return nil, fmt.Errorf("render %s: manim: %w", job.TaskID, runErr)
	}

	moviePath, err := newestVideo(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.TaskID, err)
	}
	outPath := filepath.Join(r.OutputDir, job.TaskID+".mp4")
	if err := copyFile(moviePath, outPath); err != nil {
		return nil, fmt.Errorf("render %s: %w", job.TaskID, err)
	}

	if r.Log != nil {
		r.Log.Info("render complete",
			zap.String("task", job.TaskID),
			zap.String("video", outPath),
			zap.Duration("duration", elapsed))
	}
	return &Result{VideoPath: outPath, Duration: elapsed}, nil
}

// Available reports whether the manim binary is on PATH.
func (r *ManimRunner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// newestVideo finds the most recently modified mp4 under root.
func newestVideo(root string) (string, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".mp4" {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", errors.New("manim did not produce a video file")
	}
	sort.Slice(candidates, func(i, j int) bool {
		return modTime(candidates[i]).After(modTime(candidates[j]))
	})
	return candidates[0], nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
