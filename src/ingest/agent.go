package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"sysdoctor-agent/src/broker"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/logger"
	"sysdoctor-agent/src/logsource"
)

// SourceFactory builds the log sources for one diagnosis request.
// The default factory shells out to dmesg and journalctl; tests swap
// in reader-backed sources.
type SourceFactory func(since string) (logsource.Source, error)

// DefaultSourceFactory reads the kernel ring buffer and the kernel
// journal for the requested window.
func DefaultSourceFactory(since string) (logsource.Source, error) {
	dmesg, err := logsource.NewDmesgSource()
	if err != nil {
		return nil, fmt.Errorf("failed to open dmesg: %w", err)
	}

	journal, err := logsource.NewJournalSource(since)
	if err != nil {
		dmesg.Close()
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return logsource.NewMultiSource(dmesg, journal), nil
}

// Agent consumes diagnosis requests and publishes batched log lines.
type Agent struct {
	broker  broker.Broker
	sources SourceFactory
	logger  logger.Logger
}

// NewAgent creates a new ingest agent.
func NewAgent(brk broker.Broker, sources SourceFactory, log logger.Logger) *Agent {
	if sources == nil {
		sources = DefaultSourceFactory
	}
	return &Agent{
		broker:  brk,
		sources: sources,
		logger:  log,
	}
}

// Run starts the agent's main loop.
// It subscribes to sysdoctor.requests and processes incoming diagnosis requests.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("[IngestAgent] Starting...")

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicRequests, "sysdoctor-ingest")
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicRequests, err)
	}

	a.logger.Info("[IngestAgent] Listening for requests on '%s' topic...", contracts.TopicRequests)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[IngestAgent] Message channel closed, shutting down")
				return nil
			}

			if err := a.processRequest(ctx, msg); err != nil {
				a.logger.Error("[IngestAgent] Error processing request: %v", err)
			}

		case <-ctx.Done():
			a.logger.Info("[IngestAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processRequest handles an incoming diagnosis request.
func (a *Agent) processRequest(ctx context.Context, msg broker.Message) error {
	var request contracts.DiagnosisRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		return fmt.Errorf("failed to unmarshal request: %w", err)
	}

	a.logger.Info("[IngestAgent] Processing request %s (since: %s)", request.RunID, request.Since)

	src, err := a.sources(request.Since)
	if err != nil {
		return fmt.Errorf("failed to open log sources: %w", err)
	}
	defer src.Close()

	lines, err := logsource.Collect(src)
	if err != nil {
		return fmt.Errorf("failed to read logs: %w", err)
	}

	a.logger.Info("[IngestAgent] Collected %d log lines for run %s", len(lines), request.RunID)

	batches := BatchLines(request.RunID, lines)
	for _, batch := range batches {
		data, err := json.Marshal(batch)
		if err != nil {
			return fmt.Errorf("failed to marshal batch %d: %w", batch.BatchIndex, err)
		}

		// Keyed by run ID so all batches of one run land on the same
		// partition, in order.
		if err := a.broker.Publish(ctx, contracts.TopicLogBatches, request.RunID, data); err != nil {
			return fmt.Errorf("failed to publish batch %d: %w", batch.BatchIndex, err)
		}

		a.logger.Debug("[IngestAgent] Published %s", FormatBatchInfo(batch))
	}

	a.logger.Info("[IngestAgent] Completed request %s (%d batches published)",
		request.RunID, len(batches))

	return nil
}
