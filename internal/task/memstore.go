package task

import (
	"fmt"
	"sync"
)

// MemStore is an in-memory Store guarded by a RWMutex. Records are copied
// on the way in and out so callers can never alias the stored value.
type MemStore struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tasks: make(map[string]Task)}
}

// Create stores a new task. It fails if the ID is empty or already taken.
func (s *MemStore) Create(t Task) error {
	if t.ID == "" {
		return fmt.Errorf("create task: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("create task %s: already exists", t.ID)
	}
	s.tasks[t.ID] = t
	return nil
}

// Get returns a copy of the task with the given ID.
func (s *MemStore) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	cp := t
	return &cp, nil
}

// Replace overwrites the stored record for t.ID with t.
func (s *MemStore) Replace(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return fmt.Errorf("replace task %s: %w", t.ID, ErrNotFound)
	}
	s.tasks[t.ID] = t
	return nil
}

// List returns copies of all tasks in unspecified order.
func (s *MemStore) List() ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, nil
}

// Delete removes the task with the given ID. Deleting a missing task is
// not an error.
func (s *MemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}
