// Package classify maps non-noise log lines to issue signals using an
// ordered table of domain rules. The first matching rule wins; a line
// never yields more than one signal.
package classify

import (
	"regexp"

	"sysdoctor-agent/src/contracts"
)

// Pattern tables, compiled once. Case-insensitive where vendors disagree
// on casing (GPU hang reports vary across amdgpu/i915 versions).
var (
	gpuHangPattern  = regexp.MustCompile(`(?i)(amdgpu|i915|nouveau).*(ring .* timeout|gpu hang|gpu reset|reset failed)`)
	hwFaultPattern  = regexp.MustCompile(`(?i)(machine check|mce:.*hardware error|dmar:.*fault|iommu.*page fault|amd-vi:.*io_page_fault)`)
	freezePattern   = regexp.MustCompile(`(?i)(kernel panic|hard lockup|kernel bug at|invalid opcode)`)
	softLockPattern = regexp.MustCompile(`(?i)(soft lockup|hung_task|task .* blocked for more than)`)
	rcuStallPattern = regexp.MustCompile(`(?i)rcu_(sched|preempt).*(stall|self-detected)`)
	oomPattern      = regexp.MustCompile(`(?i)(out of memory|oom-kill|killed process \d+|oom_reaper)`)
	storagePattern  = regexp.MustCompile(`(?i)(i/o error|ata\d+:.*(error|failed command)|blk_update_request.*error|critical medium error|unc at lba)`)
	usbEnumPattern  = regexp.MustCompile(`(?i)usb.*(device descriptor read.*error|device not accepting address|unable to enumerate)`)
	netLinkPattern  = regexp.MustCompile(`(?i)(wlan\d|wlp\d\S*|iwlwifi|ath\d+k).*(link down|disconnect|firmware crash|microcode sw error)`)
	audioPattern    = regexp.MustCompile(`(?i)(snd_|sof-audio|snd_sof).*(firmware (load|boot) fail|fw boot fail|codec.*error)`)
	fsPattern       = regexp.MustCompile(`(?i)(ext4-fs error|btrfs.*(critical|corrupt)|xfs.*internal error|journal commit i/o error|remounting filesystem read-only)`)
	// The generic rule needs a concrete crash pattern, not just "error",
	// so ordinary log chatter cannot amplify into recommendations.
	genericPattern = regexp.MustCompile(`(?i)(segfault at|general protection fault|kernel oops|bug: unable to handle)`)
)

// Classifier maps lines to signals. Thermal thresholds and the live
// connectivity fact are injected at construction; the rule table itself
// is fixed.
type Classifier struct {
	profile Profile
	// online is the independently confirmed "network currently reachable"
	// fact. When true, historical link-failure lines are ignored: the
	// network recovered, so they would only produce false positives.
	online bool
}

// New creates a classifier for the given thermal profile and connectivity
// fact.
func New(profile Profile, online bool) *Classifier {
	return &Classifier{profile: profile, online: online}
}

// Classify evaluates the rule table against a non-noise line. Returns nil
// for lines matching no rule; that is the common case and not an error.
func (c *Classifier) Classify(line string) *contracts.IssueSignal {
	// Rule order is severity-biased: specific catastrophic patterns are
	// tested before broader ones so a line carrying both matches the
	// stronger category.
	if gpuHangPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityUrgent,
			Category:    "GPU_HANG",
			Explanation: "GPU ring timeout or hang detected; update GPU firmware and Mesa, and check for known driver regressions",
		}
	}
	if hwFaultPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImmediate,
			Category:    "HW_FAULT",
			Explanation: "Hardware fault reported (machine check or DMA/IOMMU fault); run memory and CPU diagnostics",
		}
	}
	if sig := c.classifyThermalLine(line); sig != nil {
		return sig
	}
	if freezePattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImmediate,
			Category:    "SYSTEM_FREEZE",
			Explanation: "Kernel panic or hard lockup recorded; the system froze completely. Check recent kernel updates and hardware",
		}
	}
	if softLockPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityUrgent,
			Category:    "SOFT_LOCKUP",
			Explanation: "CPU soft lockup or hung task; a task monopolized a CPU. Often a driver or storage latency problem",
		}
	}
	if rcuStallPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityUrgent,
			Category:    "SCHED_STALL",
			Explanation: "RCU scheduler stall detected; the kernel scheduler starved. Usually driver or interrupt storm related",
		}
	}
	if oomPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityUrgent,
			Category:    "OOM",
			Explanation: "Out-of-memory killer ran; a process was killed. Consider more RAM, zram, or fewer concurrent workloads",
		}
	}
	if storagePattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityUrgent,
			Category:    "STORAGE_IO",
			Explanation: "Storage I/O error; back up data now and check SMART health of the drive",
		}
	}
	if usbEnumPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImportant,
			Category:    "USB_ENUM",
			Explanation: "USB device failed to enumerate; try another port or cable, and check for power delivery problems",
		}
	}
	if !c.online && netLinkPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImportant,
			Category:    "NET_LINK",
			Explanation: "Wireless link failure while the network is currently down; check Wi-Fi firmware and access point",
		}
	}
	if audioPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImportant,
			Category:    "AUDIO",
			Explanation: "Audio subsystem failure (firmware or codec); reload the sound driver or update sof-firmware",
		}
	}
	if fsPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityImmediate,
			Category:    "FS_CORRUPT",
			Explanation: "Filesystem corruption reported; unmount and run fsck before further writes",
		}
	}
	if genericPattern.MatchString(line) {
		return &contracts.IssueSignal{
			Severity:    contracts.SeverityInformational,
			Category:    "GENERIC",
			Explanation: "Application crash recorded (segfault or oops); check the affected program's logs",
		}
	}
	return nil
}

// classifyThermalLine extracts a temperature reading and maps it through
// the injected profile. Lines without a reading produce nothing.
func (c *Classifier) classifyThermalLine(line string) *contracts.IssueSignal {
	temp, ok := extractCelsius(line)
	if !ok {
		return nil
	}
	return classifyThermal(temp, c.profile)
}
