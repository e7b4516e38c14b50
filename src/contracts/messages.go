package contracts

// DiagnosisRequest asks the agents to analyze a machine's recent logs.
// Published to: sysdoctor.requests
// Key: {run_id}
type DiagnosisRequest struct {
	RunID string `json:"run_id"`
	// Since is the journal window, journalctl --since syntax.
	Since string `json:"since"`
	// Timestamp is the submission time, RFC3339.
	Timestamp string `json:"timestamp"`
}

// LogBatch carries a fixed-size batch of log lines from the ingest agent
// to the analysis agent.
// Published to: sysdoctor.logs.batches
// Key: {run_id}
type LogBatch struct {
	RunID        string    `json:"run_id"`
	BatchIndex   int       `json:"batch_index"`
	TotalBatches int       `json:"total_batches"`
	Lines        []LogLine `json:"lines"`
}

// RecommendationSet is the analysis agent's final output for one run.
// Published to: sysdoctor.recommendations
// Key: {run_id}
type RecommendationSet struct {
	RunID           string             `json:"run_id"`
	Recommendations []Recommendation   `json:"recommendations"`
	Counters        map[EntityKind]int `json:"counters"`
	LinesProcessed  int                `json:"lines_processed"`
	Timestamp       string             `json:"timestamp"`
}

// RunStatus tracks the lifecycle of a diagnosis request.
type RunStatus struct {
	RunID                string
	Since                string
	Status               string // pending, processing, completed, failed
	BatchesTotal         int
	BatchesProcessed     int
	RecommendationsCount int
}

// Topic names used in the agentic architecture.
const (
	// TopicRequests carries diagnosis requests.
	TopicRequests = "sysdoctor.requests"

	// TopicLogBatches carries batched log lines.
	TopicLogBatches = "sysdoctor.logs.batches"

	// TopicRecommendations carries finalized recommendation sets.
	TopicRecommendations = "sysdoctor.recommendations"
)
