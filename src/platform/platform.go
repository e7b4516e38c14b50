// Package platform supplies the hardware metadata the classifier needs:
// CPU vendor, a modern-vs-legacy generation flag, and whether the machine
// is a recognized target device. The metadata only selects thermal
// threshold tables; detection failure degrades to conservative defaults,
// never to an error the pipeline would see.
package platform

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"sysdoctor-agent/src/classify"
)

// Info describes the platform for threshold selection.
type Info struct {
	Vendor classify.Vendor
	// Modern is true for AMD Zen 2 (family 23 model >= 96) and later
	// parts, which are designed to run hot.
	Modern bool
	// Recognized is true when the DMI product name matches a known
	// target device.
	Recognized bool
}

// recognizedProducts are DMI product-name substrings for devices this
// tool has been validated on.
var recognizedProducts = []string{"TUXEDO", "Slimbook", "ThinkPad", "IdeaPad", "Legion"}

// Detect reads /proc/cpuinfo and the DMI product name. Missing or
// unreadable files yield VendorUnknown, which selects the most
// conservative thermal table downstream.
func Detect() Info {
	info := Info{Vendor: classify.VendorUnknown}

	if f, err := os.Open("/proc/cpuinfo"); err == nil {
		info = parseCPUInfo(f)
		f.Close()
	}

	if name, err := os.ReadFile("/sys/class/dmi/id/product_name"); err == nil {
		product := strings.TrimSpace(string(name))
		for _, p := range recognizedProducts {
			if strings.Contains(product, p) {
				info.Recognized = true
				break
			}
		}
	}

	return info
}

// FromOverrides builds an Info from configuration strings, falling back
// to detection for any empty value.
func FromOverrides(vendor, generation string) Info {
	info := Detect()
	switch vendor {
	case "amd":
		info.Vendor = classify.VendorAMD
	case "intel":
		info.Vendor = classify.VendorIntel
	}
	switch generation {
	case "modern":
		info.Modern = true
	case "legacy":
		info.Modern = false
	}
	return info
}

// Profile returns the thermal threshold table for this platform.
func (i Info) Profile() classify.Profile {
	return classify.ProfileFor(i.Vendor, i.Modern)
}

// parseCPUInfo extracts vendor and generation from /proc/cpuinfo content.
func parseCPUInfo(r io.Reader) Info {
	info := Info{Vendor: classify.VendorUnknown}
	family, model := 0, 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, found := strings.Cut(sc.Text(), ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "vendor_id":
			switch value {
			case "AuthenticAMD":
				info.Vendor = classify.VendorAMD
			case "GenuineIntel":
				info.Vendor = classify.VendorIntel
			}
		case "cpu family":
			family, _ = strconv.Atoi(value)
		case "model":
			model, _ = strconv.Atoi(value)
		}

		// The first processor block is enough.
		if key == "power management" {
			break
		}
	}

	if info.Vendor == classify.VendorAMD {
		// Zen 2 mobile starts at family 23 model 96 (Renoir); family 25+
		// is Zen 3 and later.
		info.Modern = family > 23 || (family == 23 && model >= 96)
	}
	if info.Vendor == classify.VendorIntel {
		info.Modern = family >= 6 && model >= 140
	}

	return info
}
