// Package analyze provides the Analysis Agent for the agentic
// architecture. This agent consumes batched log lines from Redpanda,
// runs them through the diagnostic pipeline, and publishes the final
// recommendation set for each run.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sysdoctor-agent/src/broker"
	"sysdoctor-agent/src/classify"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/logger"
	"sysdoctor-agent/src/pipeline"
	"sysdoctor-agent/src/platform"
	"sysdoctor-agent/src/store"
)

// runState holds the in-flight pipeline for one run. Batches for a run
// arrive in order (they share a partition key), so the correlator's
// one-line history carries across batch boundaries.
type runState struct {
	pipeline  *pipeline.Pipeline
	total     int
	processed map[int]bool
}

// Agent consumes log batches and publishes recommendation sets.
type Agent struct {
	broker  broker.Broker
	store   store.Store
	profile classify.Profile
	conn    platform.Connectivity
	logger  logger.Logger

	runs map[string]*runState
}

// NewAgent creates a new analyze agent. The thermal profile and
// connectivity probe describe the machine the logs came from; in the
// single-host deployment that is the machine the agent runs on.
func NewAgent(brk broker.Broker, st store.Store, profile classify.Profile, conn platform.Connectivity, log logger.Logger) *Agent {
	return &Agent{
		broker:  brk,
		store:   st,
		profile: profile,
		conn:    conn,
		logger:  log,
		runs:    make(map[string]*runState),
	}
}

// Run starts the agent's main loop.
// It subscribes to sysdoctor.logs.batches and processes incoming batches.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("[AnalyzeAgent] Starting...")

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicLogBatches, "sysdoctor-analyze")
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicLogBatches, err)
	}

	a.logger.Info("[AnalyzeAgent] Listening for log batches on '%s' topic...", contracts.TopicLogBatches)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[AnalyzeAgent] Message channel closed, shutting down")
				return nil
			}

			if err := a.processBatch(ctx, msg); err != nil {
				a.logger.Error("[AnalyzeAgent] Error processing batch: %v", err)
			}

		case <-ctx.Done():
			a.logger.Info("[AnalyzeAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processBatch feeds one batch into its run's pipeline and finalizes
// the run once every batch has arrived.
func (a *Agent) processBatch(ctx context.Context, msg broker.Message) error {
	var batch contracts.LogBatch
	if err := json.Unmarshal(msg.Value, &batch); err != nil {
		return fmt.Errorf("failed to unmarshal batch: %w", err)
	}

	a.logger.Debug("[AnalyzeAgent] Processing batch %d/%d for run %s",
		batch.BatchIndex+1, batch.TotalBatches, batch.RunID)

	run, ok := a.runs[batch.RunID]
	if !ok {
		// First batch for this run: probe connectivity once so every
		// line of the run is classified against the same answer.
		run = &runState{
			pipeline:  pipeline.New(a.profile, a.conn.Online()),
			total:     batch.TotalBatches,
			processed: make(map[int]bool),
		}
		a.runs[batch.RunID] = run

		a.updateStatus(ctx, &contracts.RunStatus{
			RunID:        batch.RunID,
			Status:       "processing",
			BatchesTotal: batch.TotalBatches,
		})
	}

	if run.processed[batch.BatchIndex] {
		a.logger.Debug("[AnalyzeAgent] Skipping duplicate batch %d for run %s",
			batch.BatchIndex, batch.RunID)
		return nil
	}
	run.processed[batch.BatchIndex] = true

	for _, line := range batch.Lines {
		run.pipeline.Process(line)
	}

	if len(run.processed) < run.total {
		a.updateStatus(ctx, &contracts.RunStatus{
			RunID:            batch.RunID,
			Status:           "processing",
			BatchesTotal:     run.total,
			BatchesProcessed: len(run.processed),
		})
		return nil
	}

	return a.finalizeRun(ctx, batch.RunID, run)
}

// finalizeRun closes the pipeline, publishes the recommendation set,
// and persists it.
func (a *Agent) finalizeRun(ctx context.Context, runID string, run *runState) error {
	delete(a.runs, runID)

	report := run.pipeline.Finalize()

	a.logger.Info("[AnalyzeAgent] Run %s complete: %d lines, %d recommendations",
		runID, report.LinesProcessed, len(report.Recommendations))

	set := contracts.RecommendationSet{
		RunID:           runID,
		Recommendations: report.Recommendations,
		Counters:        report.Counters,
		LinesProcessed:  report.LinesProcessed,
		Timestamp:       time.Now().Format(time.RFC3339),
	}

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation set: %w", err)
	}
	if err := a.broker.Publish(ctx, contracts.TopicRecommendations, runID, data); err != nil {
		return fmt.Errorf("failed to publish recommendation set: %w", err)
	}

	if err := a.store.SaveRecommendations(ctx, runID, report.Recommendations); err != nil {
		a.logger.Error("[AnalyzeAgent] Failed to persist recommendations: %v", err)
	}
	a.updateStatus(ctx, &contracts.RunStatus{
		RunID:                runID,
		Status:               "completed",
		BatchesTotal:         run.total,
		BatchesProcessed:     run.total,
		RecommendationsCount: len(report.Recommendations),
	})

	return nil
}

// updateStatus records progress in the store. Status writes are best
// effort; a store failure must not stall analysis.
func (a *Agent) updateStatus(ctx context.Context, status *contracts.RunStatus) {
	if err := a.store.UpdateRunStatus(ctx, status); err != nil {
		a.logger.Debug("[AnalyzeAgent] Failed to update run status: %v", err)
	}
}
