package mcp

import (
	"sync"

	"sysdoctor-agent/src/contracts"
)

// RunStore keeps finished recommendation sets for drill-down calls.
// In-memory only: an MCP session is short-lived and the agentic
// deployment persists runs in Postgres instead.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]contracts.RecommendationSet
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]contracts.RecommendationSet),
	}
}

// Store saves a finished run.
func (s *RunStore) Store(set contracts.RecommendationSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[set.RunID] = set
}

// Get retrieves a finished run by ID.
func (s *RunStore) Get(runID string) (contracts.RecommendationSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.runs[runID]
	return set, ok
}

// RunIDs returns the IDs of all stored runs.
func (s *RunStore) RunIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids
}
