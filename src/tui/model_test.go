package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/pipeline"
)

func testReport() pipeline.Report {
	return pipeline.Report{
		Recommendations: []contracts.Recommendation{
			{Severity: contracts.SeverityImmediate, Category: "THERMAL_EMERGENCY", Text: "CPU exceeded critical shutdown temperature"},
			{Severity: contracts.SeverityUrgent, Category: "GPU_HANG", Text: "GPU hang detected"},
			{Severity: contracts.SeverityImportant, Category: "WIFI_INSTABILITY", Text: "Repeated Wi-Fi disconnections"},
		},
		Counters:       map[contracts.EntityKind]int{contracts.KindWifi: 5},
		LinesProcessed: 120,
		NoiseFiltered:  40,
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(testReport())

	if len(model.items) != 3 {
		t.Errorf("expected 3 items, got %d", len(model.items))
	}
	if model.items[0].Rank != 1 {
		t.Errorf("expected first item rank 1, got %d", model.items[0].Rank)
	}
	if model.items[0].Rec.Category != "THERMAL_EMERGENCY" {
		t.Errorf("rank order not preserved: %s", model.items[0].Rec.Category)
	}
}

func TestModelEmptyReport(t *testing.T) {
	model := NewModel(pipeline.Report{LinesProcessed: 10, NoiseFiltered: 10})

	// Set window size to ensure View doesn't return "Initializing..."
	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model = updatedModel.(Model)

	view := model.View()
	expected := "No issues found. System logs look healthy.\n"
	if view != expected {
		t.Errorf("expected healthy message:\n%q\ngot:\n%q", expected, view)
	}
}

func TestModelNavigation(t *testing.T) {
	model := NewModel(testReport())

	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	model = updatedModel.(Model)

	// Test down navigation
	updatedModel, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updatedModel.(Model)
	if model.list.Index() != 1 {
		t.Errorf("expected index 1 after down, got %d", model.list.Index())
	}

	// Test j key navigation (vim-style down)
	updatedModel, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model = updatedModel.(Model)
	if model.list.Index() != 2 {
		t.Errorf("expected index 2 after j, got %d", model.list.Index())
	}

	// Test up navigation
	updatedModel, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = updatedModel.(Model)
	if model.list.Index() != 1 {
		t.Errorf("expected index 1 after up, got %d", model.list.Index())
	}
}

func TestModelDetailScrollResetsOnNavigation(t *testing.T) {
	model := NewModel(testReport())

	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	model = updatedModel.(Model)

	updatedModel, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	model = updatedModel.(Model)
	if model.detailScroll != 1 {
		t.Fatalf("expected detail scroll 1, got %d", model.detailScroll)
	}

	updatedModel, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updatedModel.(Model)
	if model.detailScroll != 0 {
		t.Errorf("expected detail scroll reset after navigation, got %d", model.detailScroll)
	}
}

func TestModelView(t *testing.T) {
	model := NewModel(testReport())

	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = updatedModel.(Model)

	view := model.View()

	if !strings.Contains(view, "sysdoctor") {
		t.Error("view should contain title")
	}
	if !strings.Contains(view, "3 recommendations") {
		t.Error("view should contain recommendation count")
	}
	if !strings.Contains(view, "120 lines processed") {
		t.Error("view should contain line summary")
	}
	if !strings.Contains(view, "IMMEDIATE") {
		t.Error("view should contain top severity")
	}
	if !strings.Contains(view, "THERMAL_EMERGENCY") {
		t.Error("view should contain top category")
	}
	if !strings.Contains(view, "wifi: 5") {
		t.Error("view should contain wifi counter")
	}
	if !strings.Contains(view, "quit") {
		t.Error("view should contain help text")
	}
}

func TestItemInterface(t *testing.T) {
	item := Item{
		Rec:  contracts.Recommendation{Severity: contracts.SeverityUrgent, Category: "GPU_HANG", Text: "GPU hang detected"},
		Rank: 1,
	}

	if item.FilterValue() != "GPU hang detected" {
		t.Errorf("unexpected filter value: %s", item.FilterValue())
	}
	if item.Title() != "GPU hang detected" {
		t.Errorf("unexpected title: %s", item.Title())
	}
	if item.Description() != "GPU_HANG" {
		t.Errorf("unexpected description: %s", item.Description())
	}
}
