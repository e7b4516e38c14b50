// Package noise decides whether a log line is routine operational chatter.
//
// The filter is an explicit ordered rule table so evaluation order and
// "first match wins" semantics are auditable and testable. A line matching
// any rule is withheld from every downstream stage, even when it contains
// alarming substrings like "error" or "failed". A line matching no rule
// falls through as non-noise: the filter fails open toward visibility.
package noise

import "strings"

// Rule is a conjunctive substring rule. A line matches when it contains
// every substring in All and, if Any is non-empty, at least one substring
// in Any. Matching is case-sensitive: kernel log sources are.
type Rule struct {
	// Name identifies the rule for auditing and tests.
	Name string
	All  []string
	Any  []string
}

// Matches reports whether line satisfies the rule.
func (r Rule) Matches(line string) bool {
	for _, s := range r.All {
		if !strings.Contains(line, s) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, s := range r.Any {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

// rules is evaluated in order; the first match wins.
var rules = []Rule{
	{
		Name: "audit-session-chatter",
		All:  []string{"audit"},
		Any: []string{
			"CRED_ACQ", "CRED_DISP", "CRED_REFR",
			"USER_AUTH", "USER_ACCT", "USER_START", "USER_END",
			"SESSION_OPEN", "SESSION_CLOSE",
			"SERVICE_START", "SERVICE_STOP",
		},
	},
	{
		// ucsi_acpi fails UCSI_GET_PDOS on many laptops; harmless despite
		// the word "failed" in the message.
		Name: "ucsi-get-pdos",
		All:  []string{"ucsi_acpi", "UCSI_GET_PDOS"},
	},
	{
		Name: "typec-registration",
		All:  []string{"typec"},
		Any:  []string{"registered", "port"},
	},
	{
		Name: "iwlwifi-probe",
		All:  []string{"iwlwifi"},
		Any:  []string{"Detected", "loaded firmware", "base HW address", "Debug config"},
	},
	{
		Name: "bluetooth-firmware",
		All:  []string{"Bluetooth:"},
		Any:  []string{"firmware", "Loading", "hci0: Device setup"},
	},
	{
		Name: "acpi-probe",
		All:  []string{"ACPI"},
		Any:  []string{"_OSC", "AE_NOT_FOUND", "supports S0", "button:"},
	},
	{
		Name: "thermal-zone-registration",
		All:  []string{"thermal"},
		Any:  []string{"registered as thermal_zone", "trip point"},
	},
	{
		Name: "audio-jack",
		All:  []string{"jack"},
		Any:  []string{"plugged", "unplugged", "Headphone"},
	},
	{
		Name: "asoc-topology",
		All:  []string{"ASoC:"},
		Any:  []string{"topology", "widget", "no source widget"},
	},
	{
		Name: "ext4-clean-mount",
		All:  []string{"EXT4-fs", "mounted filesystem"},
	},
	{
		Name: "systemd-unit-cycle",
		All:  []string{"systemd"},
		Any:  []string{"Started ", "Stopped ", "Reached target", "Finished "},
	},
}

// IsNoise reports whether the line is routine chatter. Pure; must be
// evaluated before any other pipeline stage.
func IsNoise(line string) bool {
	for _, r := range rules {
		if r.Matches(line) {
			return true
		}
	}
	return false
}

// Rules returns the rule table, in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
