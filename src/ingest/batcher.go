// Package ingest provides the Ingestion Agent for the agentic architecture.
// This agent consumes diagnosis requests from Redpanda and publishes
// batched kernel log lines.
package ingest

import (
	"fmt"

	"sysdoctor-agent/src/contracts"
)

// BatchSize is the number of log lines per batch. Kernel logs for a
// 24-hour window are usually a few thousand lines, so most runs ship
// in a handful of batches.
const BatchSize = 500

// BatchLines splits collected log lines into fixed-size batches.
// Every run produces at least one batch, even when the window is
// empty, so the analysis agent always sees a terminal batch count.
func BatchLines(runID string, lines []contracts.LogLine) []contracts.LogBatch {
	total := (len(lines) + BatchSize - 1) / BatchSize
	if total == 0 {
		total = 1
	}

	batches := make([]contracts.LogBatch, 0, total)
	for i := 0; i < total; i++ {
		start := i * BatchSize
		end := start + BatchSize
		if end > len(lines) {
			end = len(lines)
		}

		batch := contracts.LogBatch{
			RunID:        runID,
			BatchIndex:   i,
			TotalBatches: total,
			Lines:        make([]contracts.LogLine, end-start),
		}
		copy(batch.Lines, lines[start:end])
		batches = append(batches, batch)
	}

	return batches
}

// FormatBatchInfo returns a human-readable summary of batch information.
func FormatBatchInfo(batch contracts.LogBatch) string {
	return fmt.Sprintf("Batch %d/%d: %d lines",
		batch.BatchIndex+1,
		batch.TotalBatches,
		len(batch.Lines))
}
