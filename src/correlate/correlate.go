// Package correlate tests adjacent non-noise lines against known two-step
// failure sequences. A matched pair carries more diagnostic confidence
// than either line alone.
package correlate

import (
	"regexp"
	"time"

	"sysdoctor-agent/src/contracts"
)

// sequence is a known two-line pattern: previous line matching First
// immediately followed by a line matching Second.
type sequence struct {
	Kind   string
	Detail string
	First  *regexp.Regexp
	Second *regexp.Regexp
}

// sequences is evaluated in order; the first matching pair wins.
var sequences = []sequence{
	{
		Kind:   "GPU_HANG_SEQUENCE",
		Detail: "GPU ring error followed immediately by a ring timeout; this is a full GPU hang, not transient noise",
		First:  regexp.MustCompile(`(?i)(amdgpu|i915).*ring.*error`),
		Second: regexp.MustCompile(`(?i)(amdgpu|i915).*ring.*timeout`),
	},
	{
		Kind:   "STORAGE_RESET_SEQUENCE",
		Detail: "I/O timeout followed by a controller reset; the storage controller is struggling",
		First:  regexp.MustCompile(`(?i)(i/o|io|command) timeout`),
		Second: regexp.MustCompile(`(?i)(controller|nvme|ahci|ata\d+).*reset`),
	},
	{
		Kind:   "USB_ENUM_SEQUENCE",
		Detail: "USB disconnect followed by an address rejection; the device is failing to re-enumerate",
		First:  regexp.MustCompile(`\busb \d+-[\d.]+: USB disconnect`),
		Second: regexp.MustCompile(`(?i)usb.*device not accepting address`),
	},
	{
		Kind:   "EC_TIMEOUT_SEQUENCE",
		Detail: "Embedded controller command followed by an EC timeout; the EC firmware is misbehaving",
		First:  regexp.MustCompile(`(?i)\bec\b.*command`),
		Second: regexp.MustCompile(`(?i)\bec\b.*timeout`),
	},
}

// Correlator holds exactly one previous non-noise line. It is not a
// window matcher: only directly adjacent pairs in the non-noise stream
// are considered.
type Correlator struct {
	prev    string
	hasPrev bool
}

// New creates an empty correlator.
func New() *Correlator {
	return &Correlator{}
}

// Correlate tests the (previous, current) pair against the sequence table
// and then records current as the new previous line. Callers must only
// pass non-noise lines; noise must neither satisfy nor displace the
// previous-line slot.
func (c *Correlator) Correlate(line string, ts *time.Time) *contracts.CompoundEvent {
	var ev *contracts.CompoundEvent
	if c.hasPrev {
		for _, seq := range sequences {
			if seq.First.MatchString(c.prev) && seq.Second.MatchString(line) {
				ev = &contracts.CompoundEvent{Kind: seq.Kind, Timestamp: ts, Detail: seq.Detail}
				break
			}
		}
	}
	c.prev = line
	c.hasPrev = true
	return ev
}
