// Package mcp exposes the diagnostic pipeline as MCP tools so coding
// agents can run a diagnosis and read the ranked recommendations.
package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"sysdoctor-agent/src/analyze"
	"sysdoctor-agent/src/broker"
	"sysdoctor-agent/src/classify"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/ingest"
	"sysdoctor-agent/src/logger"
	"sysdoctor-agent/src/logsource"
	"sysdoctor-agent/src/platform"
	"sysdoctor-agent/src/store"
)

// diagnosisTimeout bounds one run_diagnosis call. Reading and
// analyzing a 24-hour kernel log window finishes in seconds; the
// margin covers a slow journalctl.
const diagnosisTimeout = 60 * time.Second

// Server is the MCP server for sysdoctor.
type Server struct {
	mcpServer *server.MCPServer
	runs      *RunStore

	profile classify.Profile
	conn    platform.Connectivity
	sources ingest.SourceFactory
}

// NewServer creates a new MCP server for the given machine profile.
// A nil sources factory reads dmesg and journalctl on the local host.
func NewServer(profile classify.Profile, conn platform.Connectivity, sources ingest.SourceFactory) *Server {
	s := server.NewMCPServer(
		"sysdoctor",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	if sources == nil {
		sources = ingest.DefaultSourceFactory
	}

	srv := &Server{
		mcpServer: s,
		runs:      NewRunStore(),
		profile:   profile,
		conn:      conn,
		sources:   sources,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	diagnoseTool := mcp.NewTool("run_diagnosis",
		mcp.WithDescription("Analyze this machine's kernel and journal logs for hardware and driver problems. Returns a severity-ranked list of recommendations covering thermal events, GPU hangs, USB and Wi-Fi instability, storage errors, and lockups."),
		mcp.WithString("since",
			mcp.Description("Journal window in journalctl --since syntax (default: '24 hours ago')"),
		),
		mcp.WithString("log_text",
			mcp.Description("Analyze this log text instead of reading the machine's logs"),
		),
	)

	recommendationsTool := mcp.NewTool("get_recommendations",
		mcp.WithDescription("Get the recommendations from a previous run_diagnosis call, optionally filtered by minimum severity."),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("Run ID from a run_diagnosis response"),
		),
		mcp.WithString("min_severity",
			mcp.Description("Lowest severity to include: PREVENTIVE, INFORMATIONAL, IMPORTANT, URGENT, or IMMEDIATE"),
		),
	)

	s.mcpServer.AddTool(diagnoseTool, s.handleRunDiagnosis)
	s.mcpServer.AddTool(recommendationsTool, s.handleGetRecommendations)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleRunDiagnosis handles the run_diagnosis tool call.
func (s *Server) handleRunDiagnosis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since := request.GetString("since", "24 hours ago")
	runID := generateRunID()

	sources := s.sources
	if logText := request.GetString("log_text", ""); logText != "" {
		sources = func(string) (logsource.Source, error) {
			return logsource.NewReaderSource(strings.NewReader(logText), contracts.OriginKernel), nil
		}
	}

	set, err := s.runDiagnosis(ctx, runID, since, sources)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagnosis failed: %v", err)), nil
	}

	s.runs.Store(set)

	jsonBytes, err := json.Marshal(set)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleGetRecommendations handles the get_recommendations tool call.
func (s *Server) handleGetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := request.GetString("run_id", "")
	if runID == "" {
		return mcp.NewToolResultError("run_id parameter is required"), nil
	}

	set, found := s.runs.Get(runID)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("run not found: %s", runID)), nil
	}

	if name := request.GetString("min_severity", ""); name != "" {
		min := contracts.ParseSeverity(name)
		filtered := make([]contracts.Recommendation, 0, len(set.Recommendations))
		for _, rec := range set.Recommendations {
			if rec.Severity >= min {
				filtered = append(filtered, rec)
			}
		}
		set.Recommendations = filtered
	}

	jsonBytes, err := json.Marshal(set)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// runDiagnosis runs the full ingest and analysis flow over an
// in-memory broker and waits for the recommendation set.
func (s *Server) runDiagnosis(ctx context.Context, runID, since string, sources ingest.SourceFactory) (contracts.RecommendationSet, error) {
	msgBroker := broker.NewInMemoryBroker()
	defer msgBroker.Close()

	st := store.NewMemoryStore()
	defer st.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := st.CreateRun(runCtx, runID, since); err != nil {
		return contracts.RecommendationSet{}, fmt.Errorf("failed to create run: %w", err)
	}

	// Stdio carries the MCP protocol, so the agents must stay silent.
	log := logger.NewSilentLogger()
	go ingest.NewAgent(msgBroker, sources, log).Run(runCtx)
	go analyze.NewAgent(msgBroker, st, s.profile, s.conn, log).Run(runCtx)

	ch, err := msgBroker.Subscribe(runCtx, contracts.TopicRecommendations, "mcp-server")
	if err != nil {
		return contracts.RecommendationSet{}, fmt.Errorf("failed to subscribe: %w", err)
	}

	req := contracts.DiagnosisRequest{
		RunID:     runID,
		Since:     since,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	reqData, _ := json.Marshal(req)
	if err := msgBroker.Publish(runCtx, contracts.TopicRequests, runID, reqData); err != nil {
		return contracts.RecommendationSet{}, fmt.Errorf("failed to publish request: %w", err)
	}

	timeout := time.After(diagnosisTimeout)
	for {
		select {
		case msg := <-ch:
			var set contracts.RecommendationSet
			if err := json.Unmarshal(msg.Value, &set); err != nil {
				return contracts.RecommendationSet{}, fmt.Errorf("failed to unmarshal recommendation set: %w", err)
			}
			if set.RunID != runID {
				continue
			}
			return set, nil

		case <-timeout:
			return contracts.RecommendationSet{}, fmt.Errorf("diagnosis timed out after %s", diagnosisTimeout)

		case <-runCtx.Done():
			return contracts.RecommendationSet{}, runCtx.Err()
		}
	}
}

// generateRunID creates a unique run identifier.
func generateRunID() string {
	timestamp := time.Now().UTC().Format("20060102T150405")
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("run-%s-%s", timestamp, hex.EncodeToString(randomBytes))
}
