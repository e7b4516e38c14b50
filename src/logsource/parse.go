package logsource

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"sysdoctor-agent/src/contracts"
)

var (
	// dmesg --ctime framing: "[Tue May 21 10:00:05 2024] message".
	ctimePattern = regexp.MustCompile(`^\[(\w{3} \w{3} {1,2}\d{1,2} \d{2}:\d{2}:\d{2} \d{4})\] ?`)

	// Raw dmesg framing: "[12345.678901] message". Seconds since boot
	// cannot be mapped to wall-clock time here, so the timestamp stays
	// absent and the line is excluded from time-windowed interpretation.
	monotonicPattern = regexp.MustCompile(`^\[\s*\d+\.\d+\] ?`)

	// journalctl -o short-iso framing:
	// "2024-05-21T10:00:05+0200 host kernel: message". Only the
	// timestamp and hostname are stripped; the syslog identifier stays
	// because the noise and classification rules key on it.
	journalPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{4}) \S+ `)
)

const ctimeLayout = "Mon Jan 2 15:04:05 2006"

// ParseLine turns one raw source line into a LogLine: framing stripped,
// ANSI escapes removed, timestamp parsed when the format allows it. A
// line with no parseable timestamp is kept for content classification
// with a nil timestamp; malformed input is never an error here.
func ParseLine(raw string, origin contracts.LogOrigin) contracts.LogLine {
	text := ansi.Strip(raw)

	var ts *time.Time
	switch origin {
	case contracts.OriginKernel:
		if m := ctimePattern.FindStringSubmatch(text); m != nil {
			if t, err := time.ParseInLocation(ctimeLayout, squashSpaces(m[1]), time.Local); err == nil {
				ts = &t
			}
			text = text[len(m[0]):]
		} else if m := monotonicPattern.FindString(text); m != "" {
			text = text[len(m):]
		}
	case contracts.OriginJournal:
		if m := journalPattern.FindStringSubmatch(text); m != nil {
			if t, err := time.Parse("2006-01-02T15:04:05-0700", m[1]); err == nil {
				ts = &t
			}
			text = text[len(m[0]):]
		}
	}

	return contracts.LogLine{
		Timestamp: ts,
		Origin:    origin,
		Raw:       strings.TrimSpace(text),
	}
}

// squashSpaces collapses the double space ctime uses for single-digit
// days ("May  1") so time.Parse accepts it.
func squashSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
