package analyze

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sysdoctor-agent/src/broker"
	"sysdoctor-agent/src/classify"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/logger"
	"sysdoctor-agent/src/platform"
	"sysdoctor-agent/src/store"
)

func publishBatch(t *testing.T, brk broker.Broker, batch contracts.LogBatch) {
	t.Helper()
	data, err := json.Marshal(batch)
	if err != nil {
		t.Fatalf("Failed to marshal batch: %v", err)
	}
	if err := brk.Publish(context.Background(), contracts.TopicLogBatches, batch.RunID, data); err != nil {
		t.Fatalf("Failed to publish batch: %v", err)
	}
}

func awaitSet(t *testing.T, ch <-chan broker.Message) contracts.RecommendationSet {
	t.Helper()
	select {
	case msg := <-ch:
		var set contracts.RecommendationSet
		if err := json.Unmarshal(msg.Value, &set); err != nil {
			t.Fatalf("Failed to unmarshal recommendation set: %v", err)
		}
		return set
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for recommendation set")
		return contracts.RecommendationSet{}
	}
}

func TestAgentFinalizesAfterAllBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brk := broker.NewInMemoryBroker()
	defer brk.Close()
	st := store.NewMemoryStore()
	defer st.Close()

	if err := st.CreateRun(ctx, "run-1", "24 hours ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	agent := NewAgent(brk, st, classify.ProfileAMDModern, platform.StaticConnectivity(true), logger.NewSilentLogger())

	setChan, err := brk.Subscribe(ctx, contracts.TopicRecommendations, "test-consumer")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	go agent.Run(ctx)

	// Two batches: a GPU hang pair split across the boundary, so the
	// correlator history must survive between batches.
	publishBatch(t, brk, contracts.LogBatch{
		RunID: "run-1", BatchIndex: 0, TotalBatches: 2,
		Lines: []contracts.LogLine{
			{Origin: contracts.OriginKernel, Raw: "amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 error"},
		},
	})
	publishBatch(t, brk, contracts.LogBatch{
		RunID: "run-1", BatchIndex: 1, TotalBatches: 2,
		Lines: []contracts.LogLine{
			{Origin: contracts.OriginKernel, Raw: "amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 timeout"},
		},
	})

	set := awaitSet(t, setChan)

	if set.RunID != "run-1" {
		t.Errorf("expected run ID run-1, got %s", set.RunID)
	}
	if set.LinesProcessed != 2 {
		t.Errorf("expected 2 lines processed, got %d", set.LinesProcessed)
	}

	categories := make(map[string]bool)
	for _, rec := range set.Recommendations {
		categories[rec.Category] = true
	}
	if !categories["GPU_HANG_SEQUENCE"] {
		t.Errorf("expected GPU_HANG_SEQUENCE across batch boundary, got %v", categories)
	}

	// Run status must reach completed with the recommendations counted.
	status, err := st.GetRunStatus(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRunStatus failed: %v", err)
	}
	if status.Status != "completed" {
		t.Errorf("expected status completed, got %s", status.Status)
	}
	if status.BatchesProcessed != 2 {
		t.Errorf("expected 2 batches processed, got %d", status.BatchesProcessed)
	}
	if status.RecommendationsCount != len(set.Recommendations) {
		t.Errorf("expected %d recommendations in status, got %d",
			len(set.Recommendations), status.RecommendationsCount)
	}
	if status.Since != "24 hours ago" {
		t.Errorf("since window lost during updates: %q", status.Since)
	}

	// Recommendations must be persisted in rank order.
	stored, err := st.GetRecommendations(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if len(stored) != len(set.Recommendations) {
		t.Errorf("expected %d stored recommendations, got %d", len(set.Recommendations), len(stored))
	}
}

func TestAgentIgnoresDuplicateBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brk := broker.NewInMemoryBroker()
	defer brk.Close()
	st := store.NewMemoryStore()
	defer st.Close()

	if err := st.CreateRun(ctx, "run-dup", "24 hours ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	agent := NewAgent(brk, st, classify.ProfileIntel, platform.StaticConnectivity(true), logger.NewSilentLogger())

	setChan, err := brk.Subscribe(ctx, contracts.TopicRecommendations, "test-consumer")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	go agent.Run(ctx)

	batch := contracts.LogBatch{
		RunID: "run-dup", BatchIndex: 0, TotalBatches: 2,
		Lines: []contracts.LogLine{
			{Origin: contracts.OriginKernel, Raw: "iwlwifi 0000:01:00.0: Microcode SW error detected"},
		},
	}
	// Redelivery of batch 0 must not double-count its lines or
	// finalize the run early.
	publishBatch(t, brk, batch)
	publishBatch(t, brk, batch)
	publishBatch(t, brk, contracts.LogBatch{RunID: "run-dup", BatchIndex: 1, TotalBatches: 2})

	set := awaitSet(t, setChan)

	if set.LinesProcessed != 1 {
		t.Errorf("expected 1 line processed after duplicate batch, got %d", set.LinesProcessed)
	}
}

func TestAgentEmptyRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brk := broker.NewInMemoryBroker()
	defer brk.Close()
	st := store.NewMemoryStore()
	defer st.Close()

	if err := st.CreateRun(ctx, "run-empty", "1 hour ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	agent := NewAgent(brk, st, classify.ProfileIntel, platform.StaticConnectivity(true), logger.NewSilentLogger())

	setChan, err := brk.Subscribe(ctx, contracts.TopicRecommendations, "test-consumer")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	go agent.Run(ctx)

	publishBatch(t, brk, contracts.LogBatch{RunID: "run-empty", BatchIndex: 0, TotalBatches: 1})

	set := awaitSet(t, setChan)

	if len(set.Recommendations) != 0 {
		t.Errorf("expected no recommendations for empty run, got %d", len(set.Recommendations))
	}
	if set.LinesProcessed != 0 {
		t.Errorf("expected 0 lines processed, got %d", set.LinesProcessed)
	}
}
