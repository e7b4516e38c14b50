package platform

import (
	"strings"
	"testing"

	"sysdoctor-agent/src/classify"
)

const amdModernCPUInfo = `processor	: 0
vendor_id	: AuthenticAMD
cpu family	: 25
model		: 80
model name	: AMD Ryzen 7 5800H with Radeon Graphics
power management: ts ttp tm
`

const amdLegacyCPUInfo = `processor	: 0
vendor_id	: AuthenticAMD
cpu family	: 23
model		: 24
model name	: AMD Ryzen 5 3550H
power management: ts ttp tm
`

const intelCPUInfo = `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model		: 154
model name	: 12th Gen Intel(R) Core(TM) i7-1260P
power management:
`

func TestParseCPUInfo(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantVendor classify.Vendor
		wantModern bool
	}{
		{name: "amd zen3", content: amdModernCPUInfo, wantVendor: classify.VendorAMD, wantModern: true},
		{name: "amd zen+", content: amdLegacyCPUInfo, wantVendor: classify.VendorAMD, wantModern: false},
		{name: "intel alder lake", content: intelCPUInfo, wantVendor: classify.VendorIntel, wantModern: true},
		{name: "empty input", content: "", wantVendor: classify.VendorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := parseCPUInfo(strings.NewReader(tt.content))
			if info.Vendor != tt.wantVendor {
				t.Errorf("Vendor = %s, want %s", info.Vendor, tt.wantVendor)
			}
			if info.Modern != tt.wantModern {
				t.Errorf("Modern = %v, want %v", info.Modern, tt.wantModern)
			}
		})
	}
}

func TestProfileSelection(t *testing.T) {
	amd := Info{Vendor: classify.VendorAMD, Modern: true}
	if amd.Profile().Name != "amd-modern" {
		t.Errorf("Profile() = %s, want amd-modern", amd.Profile().Name)
	}

	unknown := Info{Vendor: classify.VendorUnknown}
	if unknown.Profile().Name != "intel" {
		t.Errorf("unknown vendor Profile() = %s, want conservative intel table", unknown.Profile().Name)
	}
}

func TestFromOverrides(t *testing.T) {
	info := FromOverrides("amd", "legacy")
	if info.Vendor != classify.VendorAMD {
		t.Errorf("Vendor = %s, want amd override", info.Vendor)
	}
	if info.Modern {
		t.Error("Modern = true, want legacy override")
	}
}

func TestStaticConnectivity(t *testing.T) {
	if !StaticConnectivity(true).Online() {
		t.Error("StaticConnectivity(true).Online() = false")
	}
	if StaticConnectivity(false).Online() {
		t.Error("StaticConnectivity(false).Online() = true")
	}
}
