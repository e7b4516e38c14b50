package main

import (
	"fmt"
	"os"

	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/logsource"
	"sysdoctor-agent/src/pipeline"
	"sysdoctor-agent/src/platform"
	"sysdoctor-agent/src/report"
	"sysdoctor-agent/src/tui"
)

// runLocalMode reads logs, runs the pipeline in-process, and shows the
// result. file overrides the live sources with a saved dmesg log.
func runLocalMode(since, file string, noTUI bool) {
	info := platform.FromOverrides(appConfig.VendorOverride, appConfig.GenerationOverride)
	online := platform.ProbeConnectivity{}.Online()

	src, err := openSources(since, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log sources: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	p := pipeline.New(info.Profile(), online)
	r, err := p.Run(src)
	if err != nil {
		// A partial read still produced a report; say so and show it.
		fmt.Fprintf(os.Stderr, "Warning: log read ended early: %v\n", err)
	}

	if noTUI {
		fmt.Print(report.Render(r))
		return
	}
	if err := tui.Run(r); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

// openSources returns the log source for a local run: a saved file, or
// dmesg plus the kernel journal.
func openSources(since, file string) (logsource.Source, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		return logsource.NewReaderSource(f, contracts.OriginKernel), nil
	}

	dmesg, err := logsource.NewDmesgSource()
	if err != nil {
		return nil, fmt.Errorf("dmesg: %w", err)
	}
	journal, err := logsource.NewJournalSource(since)
	if err != nil {
		dmesg.Close()
		return nil, fmt.Errorf("journalctl: %w", err)
	}
	return logsource.NewMultiSource(dmesg, journal), nil
}
