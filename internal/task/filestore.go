package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a Store that mirrors every mutation to a JSON file so task
// state survives process restarts. Writes go through a temp file followed
// by a rename, which keeps the file valid even if the process dies
// mid-write.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	tasks map[string]Task
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens or creates the store backed by the given file.
// An existing file is loaded; a missing file starts the store empty.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, tasks: make(map[string]Task)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open task store %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.tasks); err != nil {
		return nil, fmt.Errorf("decode task store %s: %w", path, err)
	}
	return s, nil
}

// Create stores a new task and persists the store.
func (s *FileStore) Create(t Task) error {
	if t.ID == "" {
		return fmt.Errorf("create task: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("create task %s: already exists", t.ID)
	}
	s.tasks[t.ID] = t
	return s.flushLocked()
}

// Get returns a copy of the task with the given ID.
func (s *FileStore) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	cp := t
	return &cp, nil
}

// Replace overwrites the stored record for t.ID and persists the store.
func (s *FileStore) Replace(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return fmt.Errorf("replace task %s: %w", t.ID, ErrNotFound)
	}
	s.tasks[t.ID] = t
	return s.flushLocked()
}

// List returns copies of all tasks in unspecified order.
func (s *FileStore) List() ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, nil
}

// Delete removes the task with the given ID and persists the store.
// Deleting a missing task is not an error.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	return s.flushLocked()
}

// flushLocked writes the full task map to disk. Callers must hold mu.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode task store: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("write task store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write task store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write task store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write task store: %w", err)
	}
	return nil
}
