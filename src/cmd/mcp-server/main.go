// Package main provides the MCP server entry point for sysdoctor.
// This server implements the Model Context Protocol, enabling coding
// agents to diagnose the local machine through the run_diagnosis tool.
package main

import (
	"fmt"
	"log"
	"os"

	"sysdoctor-agent/src/config"
	"sysdoctor-agent/src/mcp"
	"sysdoctor-agent/src/platform"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	info := platform.FromOverrides(cfg.VendorOverride, cfg.GenerationOverride)

	server := mcp.NewServer(info.Profile(), platform.ProbeConnectivity{}, nil)

	// Run server over stdin/stdout (stdio transport)
	if err := server.Run(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
