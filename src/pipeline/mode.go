package pipeline

// Mode selects how a diagnosis request is executed.
type Mode int

const (
	// LocalMode runs the whole pipeline in-process.
	LocalMode Mode = iota
	// AgenticMode submits the request to Redpanda and lets the
	// standalone agents process it, persisting to Postgres.
	AgenticMode
)

// String returns the mode name for display.
func (m Mode) String() string {
	if m == AgenticMode {
		return "agentic"
	}
	return "local"
}

// Config carries the infrastructure settings that determine the mode.
type Config struct {
	RedpandaBrokers []string
	PostgresDSN     string
	JournalSince    string
}

// DetectMode returns AgenticMode when brokers are configured, LocalMode
// otherwise.
func DetectMode(cfg *Config) Mode {
	if cfg != nil && len(cfg.RedpandaBrokers) > 0 {
		return AgenticMode
	}
	return LocalMode
}
