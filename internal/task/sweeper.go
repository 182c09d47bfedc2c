package task

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// VideoRemover deletes the published video artifact for a task, wherever it
// lives. The artifact store satisfies this.
type VideoRemover interface {
	Remove(ctx context.Context, taskID string) error
}

// Sweeper periodically removes finished task records older than MaxAge,
// along with their published video artifacts.
type Sweeper struct {
	Store    Store
	Videos   VideoRemover
	MaxAge   time.Duration
	Interval time.Duration
	Log      *zap.Logger
}

// Run sweeps at the configured interval until ctx is cancelled.
func (w *Sweeper) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx, time.Now())
		}
	}
}

// Sweep removes terminal tasks created before now-MaxAge. It returns the
// number of records removed.
func (w *Sweeper) Sweep(ctx context.Context, now time.Time) int {
	tasks, err := w.Store.List()
	if err != nil {
		if w.Log != nil {
			w.Log.Warn("task sweep: list failed", zap.Error(err))
		}
		return 0
	}
	cutoff := now.Add(-w.MaxAge)
	removed := 0
	for _, t := range tasks {
		if !t.Status.IsTerminal() || !t.CreatedAt.Before(cutoff) {
			continue
		}
		if w.Videos != nil && t.VideoPath != "" {
			if err := w.Videos.Remove(ctx, t.ID); err != nil {
				if w.Log != nil {
					w.Log.Warn("task sweep: remove video failed",
						zap.String("task", t.ID), zap.Error(err))
				}
			}
		}
		if err := w.Store.Delete(t.ID); err != nil {
			if w.Log != nil {
				w.Log.Warn("task sweep: delete failed",
					zap.String("task", t.ID), zap.Error(err))
			}
			continue
		}
		removed++
	}
	if removed > 0 && w.Log != nil {
		w.Log.Info("task sweep", zap.Int("removed", removed))
	}
	return removed
}
