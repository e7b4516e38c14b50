// Package track follows the lifecycle of stateful hardware entities (USB
// endpoints, thermal zones, GPUs, Wi-Fi links) across a log run.
package track

import (
	"regexp"
	"time"

	"sysdoctor-agent/src/contracts"
)

// Lifecycle status values.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusThrottling   = "throttling"
	StatusNormal       = "normal"
	StatusHang         = "hang"
	StatusRecovered    = "recovered"
	StatusDropped      = "dropped"
)

var (
	// usbAddrPattern captures the bus address, e.g. "usb 1-3.2:".
	usbAddrPattern   = regexp.MustCompile(`\busb (\d+-[\d.]+):`)
	usbConnect       = regexp.MustCompile(`\busb \d+-[\d.]+: new .*device`)
	usbDisconnect    = regexp.MustCompile(`\busb \d+-[\d.]+: USB disconnect`)
	thermalThrottle  = regexp.MustCompile(`(?i)(core|cpu|package).*(temperature above threshold|clock throttled)`)
	thermalNormal    = regexp.MustCompile(`(?i)(core|cpu|package).*temperature/speed normal`)
	gpuHang          = regexp.MustCompile(`(?i)(amdgpu|i915).*(ring .* timeout|gpu hang)`)
	gpuRecovered     = regexp.MustCompile(`(?i)(amdgpu|i915).*(reset succeeded|recovered)`)
	wifiDrop         = regexp.MustCompile(`(wlan\d+|wlp\d\S*): (deauthenticating|disconnected from|Connection to AP .* lost)`)
	wifiIfacePattern = regexp.MustCompile(`(wlan\d+|wlp\d\S*):`)
)

// Tracker maintains the entity map for one pipeline instance. Not safe
// for concurrent use; each pipeline owns exactly one tracker.
type Tracker struct {
	entities map[string]*contracts.DeviceState
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{entities: make(map[string]*contracts.DeviceState)}
}

// Observe inspects a non-noise line and returns a transition event when
// the line indicates a recognized state change, nil otherwise.
//
// Recovery events (thermal back to normal, GPU recovered) are emitted only
// when the entity's recorded status is the corresponding failure status.
// A recovery line with no preceding failure produces nothing; this keeps
// spurious recovery counts out of the pattern detector.
func (t *Tracker) Observe(line string, ts *time.Time) *contracts.StateTransitionEvent {
	switch {
	case usbDisconnect.MatchString(line):
		if m := usbAddrPattern.FindStringSubmatch(line); m != nil {
			return t.transition("usb:"+m[1], contracts.KindUSB, StatusDisconnected, ts)
		}

	case usbConnect.MatchString(line):
		if m := usbAddrPattern.FindStringSubmatch(line); m != nil {
			return t.transition("usb:"+m[1], contracts.KindUSB, StatusConnected, ts)
		}

	case thermalThrottle.MatchString(line):
		return t.transition("thermal:cpu", contracts.KindThermal, StatusThrottling, ts)

	case thermalNormal.MatchString(line):
		return t.recoverOnly("thermal:cpu", contracts.KindThermal, StatusThrottling, StatusNormal, ts)

	case gpuHang.MatchString(line):
		return t.transition("gpu:0", contracts.KindGPU, StatusHang, ts)

	case gpuRecovered.MatchString(line):
		return t.recoverOnly("gpu:0", contracts.KindGPU, StatusHang, StatusRecovered, ts)

	case wifiDrop.MatchString(line):
		if m := wifiIfacePattern.FindStringSubmatch(line); m != nil {
			return t.occurrence("wifi:"+m[1], contracts.KindWifi, StatusDropped, ts)
		}
	}
	return nil
}

// State returns the current recorded state for an entity, if any.
func (t *Tracker) State(entityID string) (contracts.DeviceState, bool) {
	st, ok := t.entities[entityID]
	if !ok {
		return contracts.DeviceState{}, false
	}
	return *st, true
}

// Entities returns the number of tracked entities.
func (t *Tracker) Entities() int {
	return len(t.entities)
}

// transition records a new status unconditionally and reports the change.
// Re-observing the current status emits nothing: only changes are events.
func (t *Tracker) transition(id string, kind contracts.EntityKind, to string, ts *time.Time) *contracts.StateTransitionEvent {
	st, seen := t.entities[id]
	if !seen {
		t.entities[id] = &contracts.DeviceState{EntityID: id, Kind: kind, Status: to, LastChange: ts}
		return &contracts.StateTransitionEvent{EntityID: id, Kind: kind, From: "", To: to, Timestamp: ts}
	}
	if st.Status == to {
		return nil
	}
	from := st.Status
	st.Status = to
	st.LastChange = ts
	return &contracts.StateTransitionEvent{EntityID: id, Kind: kind, From: from, To: to, Timestamp: ts}
}

// occurrence records a point event that is counted every time it appears.
// Wi-Fi drops are occurrences, not state changes: successive drops imply
// reconnects in between that the log may not show, and each one must
// feed the recurring-instability counter.
func (t *Tracker) occurrence(id string, kind contracts.EntityKind, to string, ts *time.Time) *contracts.StateTransitionEvent {
	st, seen := t.entities[id]
	from := ""
	if seen {
		from = st.Status
		st.Status = to
		st.LastChange = ts
	} else {
		t.entities[id] = &contracts.DeviceState{EntityID: id, Kind: kind, Status: to, LastChange: ts}
	}
	return &contracts.StateTransitionEvent{EntityID: id, Kind: kind, From: from, To: to, Timestamp: ts}
}

// recoverOnly records a recovery transition only when the entity's last
// recorded status is the expected failure status.
func (t *Tracker) recoverOnly(id string, kind contracts.EntityKind, failure, recovered string, ts *time.Time) *contracts.StateTransitionEvent {
	st, seen := t.entities[id]
	if !seen || st.Status != failure {
		return nil
	}
	st.Status = recovered
	st.LastChange = ts
	return &contracts.StateTransitionEvent{EntityID: id, Kind: kind, From: failure, To: recovered, Timestamp: ts}
}
