package classify

import (
	"regexp"
	"strconv"
	"strings"

	"sysdoctor-agent/src/contracts"
)

// Vendor identifies a CPU vendor for thermal threshold selection.
type Vendor string

const (
	VendorAMD     Vendor = "amd"
	VendorIntel   Vendor = "intel"
	VendorUnknown Vendor = "unknown"
)

// Profile holds the thermal thresholds for one vendor/generation, in °C.
// Each field is the minimum temperature at which that severity applies.
type Profile struct {
	Name       string
	Preventive int
	Important  int
	Urgent     int
	Immediate  int
}

// Threshold tables. AMD mobile parts are designed to run hot, so modern
// AMD thresholds sit well above Intel's.
var (
	ProfileAMDModern = Profile{Name: "amd-modern", Preventive: 90, Important: 95, Urgent: 100, Immediate: 105}
	ProfileAMDLegacy = Profile{Name: "amd-legacy", Preventive: 85, Important: 90, Urgent: 95, Immediate: 105}
	ProfileIntel     = Profile{Name: "intel", Preventive: 80, Important: 85, Urgent: 90, Immediate: 100}
)

// ProfileFor selects the threshold table for a platform. Unknown vendors
// fall back to the Intel table, the most conservative one, so missing
// metadata can only make the classifier stricter.
func ProfileFor(vendor Vendor, modern bool) Profile {
	switch vendor {
	case VendorAMD:
		if modern {
			return ProfileAMDModern
		}
		return ProfileAMDLegacy
	case VendorIntel:
		return ProfileIntel
	}
	return ProfileIntel
}

// celsiusPattern matches a temperature reading in a kernel log line.
// Matches: "106 C", "106.0°C", "temperature (105 C)", "temp: 95C".
var celsiusPattern = regexp.MustCompile(`\b(\d{2,3})(?:\.\d+)?\s*°?C\b`)

// thermalContext are the substrings that mark a line as a temperature
// report rather than an unrelated number followed by "C".
var thermalContext = []string{"temperature", "thermal", "Core temp", "°C", "overheat", "throttl"}

// extractCelsius pulls a temperature reading out of a line. The line must
// carry thermal context; a bare number is never interpreted as a reading.
func extractCelsius(line string) (int, bool) {
	inContext := false
	for _, s := range thermalContext {
		if strings.Contains(line, s) {
			inContext = true
			break
		}
	}
	if !inContext {
		return 0, false
	}

	m := celsiusPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// classifyThermal maps a temperature reading to a signal using the profile.
// Readings below the preventive threshold produce no signal.
func classifyThermal(temp int, p Profile) *contracts.IssueSignal {
	switch {
	case temp >= p.Immediate:
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImmediate,
			Category:    "THERMAL_EMERGENCY",
			Explanation: "CPU temperature " + strconv.Itoa(temp) + "°C is at emergency level; shut down and check cooling immediately",
		}
	case temp >= p.Urgent:
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityUrgent,
			Category:    "THERMAL_CRITICAL",
			Explanation: "CPU temperature " + strconv.Itoa(temp) + "°C is critical; clean vents and check thermal paste",
		}
	case temp >= p.Important:
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImportant,
			Category:    "THERMAL_WARNING",
			Explanation: "CPU temperature " + strconv.Itoa(temp) + "°C is high; the CPU is likely throttling",
		}
	case temp >= p.Preventive:
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityPreventive,
			Category:    "THERMAL_NOTICE",
			Explanation: "CPU temperature " + strconv.Itoa(temp) + "°C is elevated; monitor under sustained load",
		}
	}
	return nil
}
