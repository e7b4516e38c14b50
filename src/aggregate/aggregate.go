// Package aggregate collects issue signals, state transitions and compound
// events across a run and produces the final deduplicated, severity-ranked
// recommendation list.
package aggregate

import (
	"sort"

	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/track"
)

// Pattern thresholds: a per-kind count strictly above the threshold
// synthesizes one summarizing recommendation for the recurring pattern.
const (
	WifiDropThreshold     = 3
	USBReconnectThreshold = 2
	GPUHangThreshold      = 1
	ThermalCycleThreshold = 2
)

// compoundSeverity maps compound event kinds to recommendation severity.
var compoundSeverity = map[string]contracts.Severity{
	"GPU_HANG_SEQUENCE":      contracts.SeverityUrgent,
	"STORAGE_RESET_SEQUENCE": contracts.SeverityUrgent,
	"USB_ENUM_SEQUENCE":      contracts.SeverityImportant,
	"EC_TIMEOUT_SEQUENCE":    contracts.SeverityImportant,
}

// Aggregator owns the recommendation lifecycle for one run: candidate
// collection, pattern synthesis, deduplication and final ordering.
// Memory is proportional to distinct recommendations and entity kinds,
// never to the number of lines.
type Aggregator struct {
	candidates []contracts.Recommendation
	seen       map[string]bool

	// Per-kind transition totals, exposed for summary display.
	transitions map[contracts.EntityKind]int

	// Pattern counters.
	wifiDrops     int
	usbReconnects int
	gpuHangs      int
	thermalCycles int
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		seen:        make(map[string]bool),
		transitions: make(map[contracts.EntityKind]int),
	}
}

// AddSignal converts an issue signal into a candidate recommendation.
// Duplicate (category, text) pairs collapse; counts still feed nothing
// here because signal recurrence is already expressed by the tracker's
// transition counters.
func (a *Aggregator) AddSignal(sig contracts.IssueSignal) {
	a.add(contracts.Recommendation{
		Severity: sig.Severity,
		Category: sig.Category,
		Text:     sig.Explanation,
	})
}

// AddTransition feeds a state transition into the pattern counters.
func (a *Aggregator) AddTransition(ev contracts.StateTransitionEvent) {
	a.transitions[ev.Kind]++

	switch ev.Kind {
	case contracts.KindWifi:
		if ev.To == track.StatusDropped {
			a.wifiDrops++
		}
	case contracts.KindUSB:
		if ev.From == track.StatusDisconnected && ev.To == track.StatusConnected {
			a.usbReconnects++
		}
	case contracts.KindGPU:
		if ev.To == track.StatusHang {
			a.gpuHangs++
		}
	case contracts.KindThermal:
		if ev.To == track.StatusThrottling {
			a.thermalCycles++
		}
	}
}

// AddCompound converts a compound event into a candidate recommendation.
func (a *Aggregator) AddCompound(ev contracts.CompoundEvent) {
	sev, ok := compoundSeverity[ev.Kind]
	if !ok {
		sev = contracts.SeverityImportant
	}
	a.add(contracts.Recommendation{
		Severity: sev,
		Category: ev.Kind,
		Text:     ev.Detail,
	})
}

// Counters returns the per-kind transition totals for summary display.
func (a *Aggregator) Counters() map[contracts.EntityKind]int {
	out := make(map[contracts.EntityKind]int, len(a.transitions))
	for k, v := range a.transitions {
		out[k] = v
	}
	return out
}

// Finalize synthesizes the pattern recommendations, deduplicates and
// sorts. The output is total and stable: the same input always yields a
// byte-identical ordered list. Severity descends; ties keep first-seen
// order.
func (a *Aggregator) Finalize() []contracts.Recommendation {
	if a.wifiDrops > WifiDropThreshold {
		a.add(contracts.Recommendation{
			Severity: contracts.SeverityImportant,
			Category: "WIFI_INSTABILITY",
			Text:     "Wi-Fi dropped repeatedly during this period; check access point placement, driver and firmware versions",
		})
	}
	if a.usbReconnects > USBReconnectThreshold {
		a.add(contracts.Recommendation{
			Severity: contracts.SeverityImportant,
			Category: "USB_INSTABILITY",
			Text:     "A USB device reconnected repeatedly; suspect cable, port or device power problems",
		})
	}
	if a.gpuHangs > GPUHangThreshold {
		a.add(contracts.Recommendation{
			Severity: contracts.SeverityImportant,
			Category: "GPU_INSTABILITY",
			Text:     "The GPU hung more than once in this period; consider a driver downgrade or kernel parameter workarounds",
		})
	}
	if a.thermalCycles > ThermalCycleThreshold {
		a.add(contracts.Recommendation{
			Severity: contracts.SeverityImportant,
			Category: "THERMAL_CYCLING",
			Text:     "The CPU cycled in and out of thermal throttling repeatedly; sustained cooling is insufficient for the workload",
		})
	}

	out := make([]contracts.Recommendation, len(a.candidates))
	copy(out, a.candidates)

	// Stable sort keeps first-seen order within a severity tier, which
	// makes the whole pipeline deterministic for a fixed input.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}

// add appends a candidate unless its (category, text) key was already
// seen. The aggregator never emits two recommendations with one key.
func (a *Aggregator) add(r contracts.Recommendation) {
	key := r.Key()
	if a.seen[key] {
		return
	}
	a.seen[key] = true
	a.candidates = append(a.candidates, r)
}
