package track

import (
	"testing"

	"sysdoctor-agent/src/contracts"
)

func TestUSBLifecycle(t *testing.T) {
	tr := New()

	// First connect is a new-device transition, not a reconnect.
	ev := tr.Observe("usb 1-3: new high-speed USB device number 4 using xhci_hcd", nil)
	if ev == nil {
		t.Fatal("expected transition for first connect")
	}
	if ev.From != "" || ev.To != StatusConnected {
		t.Errorf("first connect = %q->%q, want \"\"->%q", ev.From, ev.To, StatusConnected)
	}

	ev = tr.Observe("usb 1-3: USB disconnect, device number 4", nil)
	if ev == nil || ev.From != StatusConnected || ev.To != StatusDisconnected {
		t.Fatalf("disconnect = %+v, want connected->disconnected", ev)
	}

	// Connect after a recorded disconnect is the reconnect shape.
	ev = tr.Observe("usb 1-3: new high-speed USB device number 5 using xhci_hcd", nil)
	if ev == nil || ev.From != StatusDisconnected || ev.To != StatusConnected {
		t.Fatalf("reconnect = %+v, want disconnected->connected", ev)
	}

	// Distinct address is a distinct entity.
	ev = tr.Observe("usb 2-1: new low-speed USB device number 2 using xhci_hcd", nil)
	if ev == nil || ev.From != "" {
		t.Fatalf("new address = %+v, want fresh entity", ev)
	}

	if tr.Entities() != 2 {
		t.Errorf("Entities() = %d, want 2", tr.Entities())
	}
}

func TestThermalRecoveryGating(t *testing.T) {
	tr := New()

	// A normal reading with no prior throttling must not emit recovery.
	if ev := tr.Observe("CPU0: Core temperature/speed normal", nil); ev != nil {
		t.Fatalf("unexpected recovery without prior throttling: %+v", ev)
	}

	ev := tr.Observe("CPU0: Core temperature above threshold, cpu clock throttled", nil)
	if ev == nil || ev.To != StatusThrottling {
		t.Fatalf("throttle = %+v, want -> throttling", ev)
	}

	ev = tr.Observe("CPU0: Core temperature/speed normal", nil)
	if ev == nil || ev.From != StatusThrottling || ev.To != StatusNormal {
		t.Fatalf("recovery = %+v, want throttling->normal", ev)
	}

	// A second normal reading is not another recovery.
	if ev := tr.Observe("CPU0: Core temperature/speed normal", nil); ev != nil {
		t.Fatalf("repeated normal emitted %+v, want nil", ev)
	}
}

func TestGPURecoveryGating(t *testing.T) {
	tr := New()

	if ev := tr.Observe("amdgpu 0000:04:00.0: amdgpu: GPU reset succeeded, trying to resume", nil); ev != nil {
		t.Fatalf("recovery with no preceding hang emitted %+v, want nil", ev)
	}

	ev := tr.Observe("amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 timeout", nil)
	if ev == nil || ev.To != StatusHang {
		t.Fatalf("hang = %+v, want -> hang", ev)
	}

	ev = tr.Observe("amdgpu 0000:04:00.0: amdgpu: GPU reset succeeded, trying to resume", nil)
	if ev == nil || ev.From != StatusHang || ev.To != StatusRecovered {
		t.Fatalf("recovery = %+v, want hang->recovered", ev)
	}
}

func TestWifiDrops(t *testing.T) {
	tr := New()

	lines := []string{
		"wlan0: deauthenticating from aa:bb:cc:dd:ee:ff by local choice (Reason: 3)",
		"wlan0: disconnected from aa:bb:cc:dd:ee:ff (Reason: 4)",
	}

	drops := 0
	for _, line := range lines {
		if ev := tr.Observe(line, nil); ev != nil {
			if ev.Kind != contracts.KindWifi || ev.To != StatusDropped {
				t.Errorf("Observe(%q) = %+v, want wifi drop", line, ev)
			}
			drops++
		}
	}
	// Every drop counts: drops are point events, not state changes.
	if drops != 2 {
		t.Errorf("got %d drop transitions, want 2 (every drop is an occurrence)", drops)
	}
}

func TestObserveIgnoresUnrelatedLines(t *testing.T) {
	tr := New()
	for _, line := range []string{
		"systemd[1]: Starting Network Manager...",
		"EXT4-fs (nvme0n1p2): re-mounted. Opts: (null)",
	} {
		if ev := tr.Observe(line, nil); ev != nil {
			t.Errorf("Observe(%q) = %+v, want nil", line, ev)
		}
	}
	if tr.Entities() != 0 {
		t.Errorf("Entities() = %d, want 0", tr.Entities())
	}
}
