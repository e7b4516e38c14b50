package store

import (
	"context"
	"fmt"
	"sync"

	"sysdoctor-agent/src/contracts"
)

// MemoryStore is an in-memory implementation of Store, used in local
// mode and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*contracts.RunStatus
	recs map[string][]contracts.Recommendation
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]*contracts.RunStatus),
		recs: make(map[string][]contracts.Recommendation),
	}
}

// CreateRun creates a new run record in "pending" state.
func (s *MemoryStore) CreateRun(ctx context.Context, runID string, since string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[runID] = &contracts.RunStatus{
		RunID:  runID,
		Since:  since,
		Status: "pending",
	}
	return nil
}

// GetRunStatus returns a copy of the run's status.
func (s *MemoryStore) GetRunStatus(ctx context.Context, runID string) (*contracts.RunStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, exists := s.runs[runID]
	if !exists {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	statusCopy := *status
	return &statusCopy, nil
}

// UpdateRunStatus replaces the run's status record.
func (s *MemoryStore) UpdateRunStatus(ctx context.Context, status *contracts.RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.runs[status.RunID]
	if !exists {
		return fmt.Errorf("run not found: %s", status.RunID)
	}
	statusCopy := *status
	// The since window is set at creation; updates never change it.
	if statusCopy.Since == "" {
		statusCopy.Since = existing.Since
	}
	s.runs[status.RunID] = &statusCopy
	return nil
}

// SaveRecommendations stores the ordered recommendation list for a run.
func (s *MemoryStore) SaveRecommendations(ctx context.Context, runID string, recs []contracts.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[runID] = append([]contracts.Recommendation(nil), recs...)
	return nil
}

// GetRecommendations returns the stored list in rank order.
func (s *MemoryStore) GetRecommendations(ctx context.Context, runID string) ([]contracts.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, exists := s.recs[runID]
	if !exists {
		return nil, fmt.Errorf("no recommendations for run: %s", runID)
	}
	return append([]contracts.Recommendation(nil), recs...), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
