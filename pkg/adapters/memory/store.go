package memory

import (
	"context"
	"sync"

	"lattice/pkg/domain"
)

// Store implements ports.EvaluationStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Evaluation
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Evaluation),
	}
}

// Save persists the evaluation in memory.
func (s *Store) Save(ctx context.Context, caseID string, eval *domain.Evaluation) error {
	// Copy the trace so the caller and the store never share a slice.
	copied := *eval
	copied.Trace = make([]domain.TraceEntry, len(eval.Trace))
	copy(copied.Trace, eval.Trace)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[caseID] = &copied
	return nil
}

// Load retrieves the evaluation from memory.
func (s *Store) Load(ctx context.Context, caseID string) (*domain.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eval, ok := s.data[caseID]
	if !ok {
		return nil, domain.ErrEvaluationNotFound
	}

	// Copy on read so the caller can't mutate stored state by pointer.
	ret := *eval
	ret.Trace = make([]domain.TraceEntry, len(eval.Trace))
	copy(ret.Trace, eval.Trace)
	return &ret, nil
}

// Delete removes the evaluation.
func (s *Store) Delete(ctx context.Context, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, caseID)
	return nil
}

// List returns the stored case IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cases := make([]string, 0, len(s.data))
	for id := range s.data {
		cases = append(cases, id)
	}
	return cases, nil
}
