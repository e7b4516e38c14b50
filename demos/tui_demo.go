// Demo program to showcase the sysdoctor TUI with a rich, realistic dataset.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sysdoctor-agent/src/classify"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/logsource"
	"sysdoctor-agent/src/pipeline"
	"sysdoctor-agent/src/tui"
)

func main() {
	fmt.Println("Analyzing sample kernel log...")

	src := logsource.NewReaderSource(strings.NewReader(sampleKernelLog), contracts.OriginKernel)
	p := pipeline.New(classify.ProfileAMDModern, false)
	report, err := p.Run(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sample log: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d lines, %d recommendations.\n", report.LinesProcessed, len(report.Recommendations))
	fmt.Println("Launching TUI...")
	time.Sleep(500 * time.Millisecond) // Brief pause for effect

	if err := tui.Run(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// sampleKernelLog is a day in the life of an unhappy laptop: thermal
// trouble, a GPU hang, a flapping USB hub, Wi-Fi drops, storage
// timeouts, an OOM kill, and plenty of routine noise in between.
const sampleKernelLog = `[Tue May 21 08:00:01 2024] audit: type=1101 audit(1716278401.100:200): pid=1021 uid=0 auid=1000 msg='op=PAM:accounting grantors=pam_unix acct="user" exe="/usr/bin/sudo" res=success' AUDIT_TYPE=USER_ACCT
[Tue May 21 08:00:02 2024] audit: type=1103 audit(1716278402.101:201): pid=1021 uid=0 auid=1000 msg='op=PAM:setcred grantors=pam_env,pam_unix exe="/usr/bin/sudo" res=success' AUDIT_TYPE=CRED_ACQ
[Tue May 21 08:05:10 2024] ucsi_acpi USBC000:00: GET_PDOS failed (-95)
[Tue May 21 08:12:33 2024] CPU2: Package temperature above threshold, cpu clock throttled (total events = 1)
[Tue May 21 08:12:40 2024] CPU2: Package temperature/speed normal
[Tue May 21 08:31:02 2024] wlp3s0: deauthenticating from a4:2b:b0:d1:55:21 by local choice (Reason: 3=DEAUTH_LEAVING)
[Tue May 21 08:31:09 2024] wlp3s0: authenticate with a4:2b:b0:d1:55:21
[Tue May 21 08:45:17 2024] usb 1-3: new high-speed USB device number 7 using xhci_hcd
[Tue May 21 08:47:02 2024] usb 1-3: USB disconnect, device number 7
[Tue May 21 08:47:05 2024] usb 1-3: new high-speed USB device number 8 using xhci_hcd
[Tue May 21 08:49:48 2024] usb 1-3: USB disconnect, device number 8
[Tue May 21 08:49:51 2024] usb 1-3: new high-speed USB device number 9 using xhci_hcd
[Tue May 21 08:52:30 2024] usb 1-3: USB disconnect, device number 9
[Tue May 21 08:52:33 2024] usb 1-3: new high-speed USB device number 10 using xhci_hcd
[Tue May 21 09:15:44 2024] wlp3s0: deauthenticating from a4:2b:b0:d1:55:21 by local choice (Reason: 3=DEAUTH_LEAVING)
[Tue May 21 09:15:52 2024] wlp3s0: authenticate with a4:2b:b0:d1:55:21
[Tue May 21 10:02:13 2024] amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 error
[Tue May 21 10:02:14 2024] amdgpu 0000:04:00.0: amdgpu: ring gfx_0.0.0 timeout
[Tue May 21 10:02:19 2024] amdgpu 0000:04:00.0: amdgpu: GPU reset succeeded, trying to resume
[Tue May 21 10:30:55 2024] nvme nvme0: I/O timeout, aborting
[Tue May 21 10:30:56 2024] nvme nvme0: controller reset requested
[Tue May 21 11:14:20 2024] CPU0: Core temperature is 97°C, throttling engaged
[Tue May 21 11:58:03 2024] Out of memory: Killed process 4821 (chromium) total-vm:18204456kB
[Tue May 21 12:20:11 2024] wlp3s0: deauthenticating from a4:2b:b0:d1:55:21 by local choice (Reason: 3=DEAUTH_LEAVING)
[Tue May 21 12:40:18 2024] wlp3s0: deauthenticating from a4:2b:b0:d1:55:21 by local choice (Reason: 3=DEAUTH_LEAVING)
[Tue May 21 13:05:51 2024] EXT4-fs (nvme0n1p2): mounted filesystem with ordered data mode. Quota mode: none.
`
