// Package task tracks video generation jobs. A task record is the only
// shared mutable resource crossing goroutines: the background job writes it,
// status polling reads it. Every write is a full-record replace keyed by
// task ID — never a partial field patch.
package task

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Status is the lifecycle state of a generation task.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Task is one persisted generation record.
type Task struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	VideoPath string    `json:"video_path,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
}

// Store is the persisted key→record mapping behind the status surface.
// Replace stores a complete record under its ID, overwriting any previous
// version; implementations must never merge partial updates.
type Store interface {
	Create(t Task) error
	Get(id string) (*Task, error)
	Replace(t Task) error
	List() ([]Task, error)
	Delete(id string) error
}

// ErrNotFound is returned when no task with the requested ID exists.
var ErrNotFound = fmt.Errorf("task not found")

// NewTaskID generates a UUID v4 string using crypto/rand.
func NewTaskID() string {
	var uuid [16]byte
	_, _ = rand.Read(uuid[:])
	// Set version 4 (bits 12-15 of time_hi_and_version).
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	// Set variant bits (bits 6-7 of clock_seq_hi_and_reserved).
	uuid[8] = (uuid[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16])
}
