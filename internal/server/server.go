// Package server exposes the animation service over HTTP: job submission,
// status polling (plain JSON and SSE), video serving, OCR extraction, and
// a health probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskmoor/mathcast/internal/artifact"
	"github.com/duskmoor/mathcast/internal/generator"
	"github.com/duskmoor/mathcast/internal/ocr"
	"github.com/duskmoor/mathcast/internal/task"
)

// Server wires the service surface to HTTP routes.
type Server struct {
	svc    *generator.Service
	store  task.Store
	videos artifact.Store
	ocr    ocr.Client
	log    *zap.Logger

	// renderReady reports whether the render backend is usable. Health
	// reporting only; submission is not blocked on it.
	renderReady func() bool

	http *http.Server
}

// Config carries the server's collaborators.
type Config struct {
	Service     *generator.Service
	Store       task.Store
	Videos      artifact.Store
	OCR         ocr.Client
	Log         *zap.Logger
	RenderReady func() bool
}

// New builds a Server.
func New(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	ready := cfg.RenderReady
	if ready == nil {
		ready = func() bool { return false }
	}
	return &Server{
		svc:         cfg.Service,
		store:       cfg.Store,
		videos:      cfg.Videos,
		ocr:         cfg.OCR,
		log:         log,
		renderReady: ready,
	}
}

// Handler returns the route table for the API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/status/{id}", s.handleStatus)
	mux.HandleFunc("GET /api/status/{id}/stream", s.handleStatusStream)
	mux.HandleFunc("GET /api/videos/{file}", s.handleVideo)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/ocr/extract", s.handleOCRExtract)

	return mux
}

// Start begins serving in a background goroutine.
func (s *Server) Start(addr string) {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// GenerateRequest is the submission payload.
type GenerateRequest struct {
	LatexContent string `json:"latex_content"`
	Topic        string `json:"topic,omitempty"`
	Quality      string `json:"quality,omitempty"`
}

// GenerateResponse acknowledges a queued job.
type GenerateResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	if strings.TrimSpace(req.LatexContent) == "" {
		writeError(w, http.StatusBadRequest, "latex_content is required")
		return
	}

	id, err := s.svc.Submit(r.Context(), generator.Request{
		Latex:   req.LatexContent,
		Topic:   req.Topic,
		Quality: req.Quality,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("task submitted", zap.String("task", id))
	writeJSON(w, http.StatusAccepted, GenerateResponse{TaskID: id, Status: "started"})
}

// StatusResponse is the task record as exposed to clients.
type StatusResponse struct {
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	VideoURL  string    `json:"video_url,omitempty"`
}

func statusResponse(t *task.Task) StatusResponse {
	return StatusResponse{
		TaskID:    t.ID,
		Status:    string(t.Status),
		Message:   t.Message,
		CreatedAt: t.CreatedAt,
		VideoURL:  t.VideoURL,
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(t))
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	taskID, ok := strings.CutSuffix(file, ".mp4")
	if !ok || taskID == "" {
		writeError(w, http.StatusBadRequest, "invalid video name")
		return
	}

	rc, err := s.videos.Open(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "video/mp4")
	if _, err := io.Copy(w, rc); err != nil {
		s.log.Warn("video stream interrupted",
			zap.String("task", taskID), zap.Error(err))
	}
}

// HealthResponse reports readiness of each backend.
type HealthResponse struct {
	Status         string `json:"status"`
	ManimAvailable bool   `json:"manim_available"`
	OCRAvailable   bool   `json:"ocr_available"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		ManimAvailable: s.renderReady(),
	}
	if s.ocr != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		resp.OCRAvailable = s.ocr.Healthy(ctx)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOCRExtract(w http.ResponseWriter, r *http.Request) {
	if s.ocr == nil {
		writeJSON(w, http.StatusInternalServerError, ocr.ExtractResult{
			Success:     false,
			Message:     "OCR backend not configured",
			Formulas:    []string{},
			TextContent: []string{},
		})
		return
	}

	var req ocr.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	if req.ImageData == "" {
		writeError(w, http.StatusBadRequest, "no image_data provided")
		return
	}

	res, err := s.ocr.Extract(r.Context(), req)
	if err != nil {
		s.log.Warn("ocr extraction failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ocr.ExtractResult{
			Success:     false,
			Message:     "OCR processing failed: " + err.Error(),
			Formulas:    []string{},
			TextContent: []string{},
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
