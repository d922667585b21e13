package bulk

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a job id is unknown.
var ErrNotFound = errors.New("bulk: job not found")

// Store persists job snapshots. Implementations must be safe for
// concurrent use; jobs passed in are already deep copies owned by the
// store.
type Store interface {
	Put(job *Job) error
	Get(id string) (*Job, error)
	List() ([]*Job, error)
	Close() error
}

// MemoryStore keeps jobs in process memory. Job state is lost on restart,
// which suits single-node deployments and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Put(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job.clone()
	return nil
}

func (s *MemoryStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.clone(), nil
}

func (s *MemoryStore) List() ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
