package correlate

import "testing"

func TestGPUHangSequence(t *testing.T) {
	c := New()

	if ev := c.Correlate("amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 error", nil); ev != nil {
		t.Fatalf("first line alone produced %+v, want nil", ev)
	}
	ev := c.Correlate("amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 timeout", nil)
	if ev == nil || ev.Kind != "GPU_HANG_SEQUENCE" {
		t.Fatalf("pair = %+v, want GPU_HANG_SEQUENCE", ev)
	}
}

func TestSequences(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		second   string
		wantKind string
	}{
		{
			name:     "storage reset",
			first:    "nvme nvme0: I/O timeout, qid 4",
			second:   "nvme nvme0: controller reset initiated",
			wantKind: "STORAGE_RESET_SEQUENCE",
		},
		{
			name:     "usb enumeration",
			first:    "usb 1-3: USB disconnect, device number 7",
			second:   "usb 1-3: device not accepting address 8, error -62",
			wantKind: "USB_ENUM_SEQUENCE",
		},
		{
			name:     "ec timeout",
			first:    "ACPI: EC: Sending command 0x80",
			second:   "ACPI: EC: timeout waiting for IBF=0",
			wantKind: "EC_TIMEOUT_SEQUENCE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if ev := c.Correlate(tt.first, nil); ev != nil {
				t.Fatalf("first line produced %+v, want nil", ev)
			}
			ev := c.Correlate(tt.second, nil)
			if ev == nil || ev.Kind != tt.wantKind {
				t.Fatalf("pair = %+v, want %s", ev, tt.wantKind)
			}
		})
	}
}

func TestNonAdjacentPairDoesNotMatch(t *testing.T) {
	c := New()

	c.Correlate("amdgpu: ring gfx_0.0.0 error", nil)
	c.Correlate("systemd-journald: rotating logs", nil)
	if ev := c.Correlate("amdgpu: ring gfx_0.0.0 timeout", nil); ev != nil {
		t.Fatalf("separated pair produced %+v, want nil (one line of history only)", ev)
	}
}

func TestPreviousSlotAdvances(t *testing.T) {
	c := New()

	// The second line of a matched pair becomes the new previous line.
	c.Correlate("nvme nvme0: I/O timeout, qid 2", nil)
	c.Correlate("nvme nvme0: controller reset initiated", nil)
	if ev := c.Correlate("nvme nvme0: controller reset initiated", nil); ev != nil {
		t.Fatalf("reset->reset produced %+v, want nil", ev)
	}
}
