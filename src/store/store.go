// Package store defines the interface for persisting diagnosis runs and
// their recommendations.
package store

import (
	"context"

	"sysdoctor-agent/src/contracts"
)

// Store persists run status and recommendation sets.
type Store interface {
	// CreateRun creates a new diagnosis run record.
	CreateRun(ctx context.Context, runID string, since string) error

	// GetRunStatus returns the status of a run.
	GetRunStatus(ctx context.Context, runID string) (*contracts.RunStatus, error)

	// UpdateRunStatus updates the status of a run.
	UpdateRunStatus(ctx context.Context, status *contracts.RunStatus) error

	// SaveRecommendations saves a run's ordered recommendation list.
	SaveRecommendations(ctx context.Context, runID string, recs []contracts.Recommendation) error

	// GetRecommendations retrieves a run's recommendations in rank order.
	GetRecommendations(ctx context.Context, runID string) ([]contracts.Recommendation, error)

	// Close closes the store connection.
	Close() error
}
