// Package contracts defines the data model shared by the diagnostic pipeline
// and the agents that feed it.
package contracts

import "time"

// LogOrigin identifies which log stream a line came from.
type LogOrigin string

const (
	OriginKernel  LogOrigin = "kernel"
	OriginJournal LogOrigin = "journal"
)

// LogLine is a single raw line from the kernel ring buffer or the journal.
// It is created once by a log source and never mutated afterwards.
type LogLine struct {
	// Timestamp is nil when the source line carried no parseable time.
	// Such lines are still classified by content but excluded from any
	// time-windowed interpretation.
	Timestamp *time.Time `json:"timestamp,omitempty"`
	// Origin is the stream the line was read from.
	Origin LogOrigin `json:"origin"`
	// Raw is the line text with source framing (dmesg timestamps, ANSI
	// codes, syslog prefixes) already stripped.
	Raw string `json:"raw"`
}

// Severity ranks the urgency of an issue. Higher values are more urgent.
// The same ordering drives classification priority and final report order.
type Severity int

const (
	SeverityPreventive Severity = iota
	SeverityInformational
	SeverityImportant
	SeverityUrgent
	SeverityImmediate
)

// String returns the display name for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityImmediate:
		return "IMMEDIATE"
	case SeverityUrgent:
		return "URGENT"
	case SeverityImportant:
		return "IMPORTANT"
	case SeverityInformational:
		return "INFORMATIONAL"
	case SeverityPreventive:
		return "PREVENTIVE"
	}
	return "UNKNOWN"
}

// ParseSeverity maps a display name back to a Severity. Unknown names map
// to SeverityInformational so persisted data never fails to load.
func ParseSeverity(name string) Severity {
	switch name {
	case "IMMEDIATE":
		return SeverityImmediate
	case "URGENT":
		return SeverityUrgent
	case "IMPORTANT":
		return SeverityImportant
	case "PREVENTIVE":
		return SeverityPreventive
	}
	return SeverityInformational
}

// IssueSignal is the classifier's verdict on a single non-noise line.
// Multiple lines may produce identical signals; the aggregator counts them.
type IssueSignal struct {
	Severity Severity `json:"severity"`
	// Category is a stable identifier such as GPU_HANG or THERMAL_CRITICAL.
	Category string `json:"category"`
	// Explanation is the human-readable diagnosis for this signal.
	Explanation string `json:"explanation"`
}

// EntityKind identifies the class of hardware entity the tracker follows.
type EntityKind string

const (
	KindUSB     EntityKind = "usb"
	KindThermal EntityKind = "thermal"
	KindGPU     EntityKind = "gpu"
	KindWifi    EntityKind = "wifi"
)

// DeviceState is the tracker's record for one entity. Owned exclusively by
// the tracker; created on first observation and updated in place.
type DeviceState struct {
	EntityID   string     `json:"entity_id"`
	Kind       EntityKind `json:"kind"`
	Status     string     `json:"status"`
	LastChange *time.Time `json:"last_change,omitempty"`
}

// StateTransitionEvent records a recognized lifecycle change for an entity.
// Derived, not stored: it is consumed immediately by the aggregator.
type StateTransitionEvent struct {
	EntityID  string     `json:"entity_id"`
	Kind      EntityKind `json:"kind"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// CompoundEvent is an incident inferred from a fixed two-line sequence,
// carrying more confidence than either line alone.
type CompoundEvent struct {
	// Kind is a stable identifier such as GPU_HANG_SEQUENCE.
	Kind      string     `json:"kind"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Detail    string     `json:"detail"`
}

// Recommendation is the terminal artifact of a diagnostic run. The
// aggregator guarantees no two recommendations share (Category, Text).
type Recommendation struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Text     string   `json:"text"`
}

// Key returns the deduplication key for a recommendation.
func (r Recommendation) Key() string {
	return r.Category + "\x00" + r.Text
}
