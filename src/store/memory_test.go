package store

import (
	"context"
	"testing"

	"sysdoctor-agent/src/contracts"
)

func TestMemoryStoreCreateAndGetRun(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.CreateRun(ctx, "run-1", "24 hours ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	status, err := s.GetRunStatus(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRunStatus failed: %v", err)
	}
	if status.RunID != "run-1" {
		t.Errorf("expected run ID run-1, got %s", status.RunID)
	}
	if status.Since != "24 hours ago" {
		t.Errorf("expected since '24 hours ago', got %q", status.Since)
	}
	if status.Status != "pending" {
		t.Errorf("expected status pending, got %s", status.Status)
	}
}

func TestMemoryStoreGetUnknownRun(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.GetRunStatus(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown run, got nil")
	}
}

func TestMemoryStoreUpdateRunStatus(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.CreateRun(ctx, "run-1", "1 hour ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	update := &contracts.RunStatus{
		RunID:                "run-1",
		Since:                "1 hour ago",
		Status:               "completed",
		BatchesTotal:         3,
		BatchesProcessed:     3,
		RecommendationsCount: 7,
	}
	if err := s.UpdateRunStatus(ctx, update); err != nil {
		t.Fatalf("UpdateRunStatus failed: %v", err)
	}

	status, err := s.GetRunStatus(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRunStatus failed: %v", err)
	}
	if status.Status != "completed" {
		t.Errorf("expected status completed, got %s", status.Status)
	}
	if status.BatchesProcessed != 3 {
		t.Errorf("expected 3 batches processed, got %d", status.BatchesProcessed)
	}
	if status.RecommendationsCount != 7 {
		t.Errorf("expected 7 recommendations, got %d", status.RecommendationsCount)
	}
}

func TestMemoryStoreUpdateUnknownRun(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	err := s.UpdateRunStatus(context.Background(), &contracts.RunStatus{RunID: "missing"})
	if err == nil {
		t.Error("expected error for unknown run, got nil")
	}
}

func TestMemoryStoreSaveAndGetRecommendations(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.CreateRun(ctx, "run-1", "24 hours ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	recs := []contracts.Recommendation{
		{Severity: contracts.SeverityImmediate, Category: "THERMAL_EMERGENCY", Text: "CPU exceeded critical shutdown temperature"},
		{Severity: contracts.SeverityUrgent, Category: "GPU_HANG", Text: "GPU hang detected"},
		{Severity: contracts.SeverityImportant, Category: "WIFI_INSTABILITY", Text: "Repeated Wi-Fi disconnections"},
	}
	if err := s.SaveRecommendations(ctx, "run-1", recs); err != nil {
		t.Fatalf("SaveRecommendations failed: %v", err)
	}

	got, err := s.GetRecommendations(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Errorf("recommendation %d: expected %+v, got %+v", i, recs[i], got[i])
		}
	}
}

func TestMemoryStoreRecommendationsAreCopied(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	if err := s.CreateRun(ctx, "run-1", "24 hours ago"); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	recs := []contracts.Recommendation{
		{Severity: contracts.SeverityUrgent, Category: "STORAGE_IO", Text: "Disk I/O errors detected"},
	}
	if err := s.SaveRecommendations(ctx, "run-1", recs); err != nil {
		t.Fatalf("SaveRecommendations failed: %v", err)
	}

	// Mutating the caller's slice must not affect stored data.
	recs[0].Text = "mutated"

	got, err := s.GetRecommendations(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRecommendations failed: %v", err)
	}
	if got[0].Text != "Disk I/O errors detected" {
		t.Errorf("stored recommendation was mutated: %q", got[0].Text)
	}
}
