package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/duskmoor/mathcast/internal/task"
)

// statusPollInterval is how often the stream re-reads the task record.
var statusPollInterval = time.Second

// SSEWriter writes Server-Sent Events to an http.ResponseWriter.
// Call Init once before writing any events to set the required headers.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSEWriter wrapping the given ResponseWriter.
// The ResponseWriter must implement http.Flusher for streaming to work;
// if it does not, writes will still succeed but may be buffered.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	f, _ := w.(http.Flusher)
	return &SSEWriter{
		w:       w,
		flusher: f,
	}
}

// Init sets the SSE response headers and flushes them to the client.
func (sw *SSEWriter) Init() {
	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// WriteEvent serializes v as JSON and writes it as one SSE data frame,
// flushing so the client receives it immediately.
func (sw *SSEWriter) WriteEvent(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("sse: write event: %w", err)
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}

// handleStatusStream streams status updates for one task until it reaches
// a terminal state or the client disconnects. An event is emitted whenever
// the record changes, plus one initial snapshot.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sw := NewSSEWriter(w)
	sw.Init()

	last := statusResponse(t)
	if err := sw.WriteEvent(last); err != nil {
		return
	}
	if t.Status.IsTerminal() {
		return
	}

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			t, err := s.store.Get(id)
			if err != nil {
				return
			}
			cur := statusResponse(t)
			if cur != last {
				if err := sw.WriteEvent(cur); err != nil {
					return
				}
				last = cur
			}
			if t.Status.IsTerminal() {
				return
			}
		}
	}
}
