package ingest

import (
	"fmt"
	"testing"

	"sysdoctor-agent/src/contracts"
)

func makeLines(n int) []contracts.LogLine {
	lines := make([]contracts.LogLine, n)
	for i := range lines {
		lines[i] = contracts.LogLine{
			Origin: contracts.OriginKernel,
			Raw:    fmt.Sprintf("line %d", i),
		}
	}
	return lines
}

func TestBatchLinesSingleBatch(t *testing.T) {
	batches := BatchLines("run-1", makeLines(10))

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if batches[0].RunID != "run-1" {
		t.Errorf("expected run ID run-1, got %s", batches[0].RunID)
	}
	if batches[0].BatchIndex != 0 {
		t.Errorf("expected batch index 0, got %d", batches[0].BatchIndex)
	}
	if batches[0].TotalBatches != 1 {
		t.Errorf("expected total batches 1, got %d", batches[0].TotalBatches)
	}
	if len(batches[0].Lines) != 10 {
		t.Errorf("expected 10 lines, got %d", len(batches[0].Lines))
	}
}

func TestBatchLinesMultipleBatches(t *testing.T) {
	// BatchSize*2 + 1 lines must split into three batches.
	lines := makeLines(BatchSize*2 + 1)
	batches := BatchLines("run-1", lines)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}

	total := 0
	for i, batch := range batches {
		if batch.BatchIndex != i {
			t.Errorf("batch %d: expected index %d, got %d", i, i, batch.BatchIndex)
		}
		if batch.TotalBatches != 3 {
			t.Errorf("batch %d: expected total 3, got %d", i, batch.TotalBatches)
		}
		total += len(batch.Lines)
	}
	if total != len(lines) {
		t.Errorf("expected %d lines across batches, got %d", len(lines), total)
	}

	// Line order must be preserved across batch boundaries.
	if batches[1].Lines[0].Raw != fmt.Sprintf("line %d", BatchSize) {
		t.Errorf("batch boundary out of order: got %q", batches[1].Lines[0].Raw)
	}
	if len(batches[2].Lines) != 1 {
		t.Errorf("expected final batch with 1 line, got %d", len(batches[2].Lines))
	}
}

func TestBatchLinesExactBoundary(t *testing.T) {
	batches := BatchLines("run-1", makeLines(BatchSize))

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch for exactly BatchSize lines, got %d", len(batches))
	}
}

func TestBatchLinesEmpty(t *testing.T) {
	// An empty window still produces one empty batch so the analysis
	// agent can finalize the run.
	batches := BatchLines("run-1", nil)

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch for empty input, got %d", len(batches))
	}
	if batches[0].TotalBatches != 1 {
		t.Errorf("expected total batches 1, got %d", batches[0].TotalBatches)
	}
	if len(batches[0].Lines) != 0 {
		t.Errorf("expected 0 lines, got %d", len(batches[0].Lines))
	}
}

func TestFormatBatchInfo(t *testing.T) {
	batch := contracts.LogBatch{BatchIndex: 1, TotalBatches: 3, Lines: makeLines(5)}

	got := FormatBatchInfo(batch)
	want := "Batch 2/3: 5 lines"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
