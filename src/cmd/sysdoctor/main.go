// Package main provides the unified sysdoctor CLI with mode detection.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sysdoctor-agent/src/broker"
	"sysdoctor-agent/src/config"
	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/pipeline"
	"sysdoctor-agent/src/report"
	"sysdoctor-agent/src/store"
	"sysdoctor-agent/src/tui"
)

var (
	appConfig *config.Config
	mode      pipeline.Mode
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sysdoctor",
	Short: "sysdoctor - a diagnostic engine for Linux laptop logs",
	Long: `sysdoctor reads kernel and journal logs, filters routine noise, and
produces a severity-ranked list of hardware and driver recommendations:
thermal events, GPU hangs, USB and Wi-Fi instability, storage errors,
and system lockups.

It supports two modes:
- Local Mode: reads logs and analyzes them in-process (default)
- Agentic Mode: Redpanda + Postgres, distributed agents

Mode is auto-detected based on the REDPANDA_BROKERS environment variable.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(1)
		}

		mode = pipeline.DetectMode(&pipeline.Config{
			RedpandaBrokers: appConfig.RedpandaBrokers,
			PostgresDSN:     appConfig.PostgresDSN,
			JournalSince:    appConfig.JournalSince,
		})
	},
}

// runCmd runs a diagnosis
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze this machine's logs",
	Long: `Run a diagnosis over the kernel ring buffer and the kernel journal.

Local Mode (default): reads and analyzes logs in-process, then shows the
interactive report viewer.
Agentic Mode: submits a diagnosis request to Redpanda and returns a run ID.

Set REDPANDA_BROKERS to enable agentic mode.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		since, _ := cmd.Flags().GetString("since")
		if since == "" {
			since = appConfig.JournalSince
		}

		switch mode {
		case pipeline.LocalMode:
			noTUI, _ := cmd.Flags().GetBool("no-tui")
			file, _ := cmd.Flags().GetString("file")
			runLocalMode(since, file, noTUI)
		case pipeline.AgenticMode:
			runAgenticMode(ctx, since)
		}
	},
}

func runAgenticMode(ctx context.Context, since string) {
	fmt.Println("Running in Agentic Mode (distributed)")
	fmt.Println()

	brk, err := broker.NewRedpandaBroker(appConfig.RedpandaBrokers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create broker: %v\n", err)
		os.Exit(1)
	}
	defer brk.Close()

	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	request := contracts.DiagnosisRequest{
		RunID:     runID,
		Since:     since,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if appConfig.PostgresDSN != "" {
		st, err := store.NewPostgresStore(appConfig.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.CreateRun(ctx, runID, since); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create run: %v\n", err)
			os.Exit(1)
		}
	}

	data, err := json.Marshal(request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal request: %v\n", err)
		os.Exit(1)
	}
	if err := brk.Publish(ctx, contracts.TopicRequests, runID, data); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to publish request: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Submitted diagnosis request: %s\n", runID)
	fmt.Printf("   Journal window: %s\n", since)
	fmt.Println()
	fmt.Println("The ingest and analyze agents will process this run.")
	fmt.Println()
	fmt.Printf("View results:  sysdoctor view %s\n", runID)
	fmt.Printf("Check status:  sysdoctor status %s\n", runID)
}

// viewCmd displays a finished run from Postgres
var viewCmd = &cobra.Command{
	Use:   "view [run-id]",
	Short: "View recommendations from a previous run",
	Long: `Query Postgres for a run's recommendations and display them.

This command requires agentic mode (DATABASE_URL must be set).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]
		ctx := context.Background()

		st := mustOpenStore()
		defer st.Close()

		recs, err := st.GetRecommendations(ctx, runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get recommendations: %v\n", err)
			os.Exit(1)
		}

		status, err := st.GetRunStatus(ctx, runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get run status: %v\n", err)
			os.Exit(1)
		}

		if status.Status != "completed" {
			fmt.Printf("Run %s is not finished yet (status: %s)\n", runID, status.Status)
			fmt.Println("Check again with: sysdoctor status " + runID)
			return
		}

		r := pipeline.Report{Recommendations: recs}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if noTUI {
			fmt.Print(report.Render(r))
			return
		}
		if err := tui.Run(r); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
	},
}

// statusCmd shows run status
var statusCmd = &cobra.Command{
	Use:   "status [run-id]",
	Short: "Check the status of a diagnosis run",
	Long:  `Query Postgres for the status of a diagnosis run.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]

		st := mustOpenStore()
		defer st.Close()

		status, err := st.GetRunStatus(context.Background(), runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get status: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Run ID:            %s\n", status.RunID)
		fmt.Printf("Journal window:    %s\n", status.Since)
		fmt.Printf("Status:            %s\n", status.Status)
		fmt.Printf("Batches Total:     %d\n", status.BatchesTotal)
		fmt.Printf("Batches Processed: %d\n", status.BatchesProcessed)
		fmt.Printf("Recommendations:   %d\n", status.RecommendationsCount)
	},
}

// mustOpenStore opens the Postgres store or exits.
func mustOpenStore() store.Store {
	if appConfig.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable is required for this command")
		os.Exit(1)
	}

	st, err := store.NewPostgresStore(appConfig.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	return st
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(statusCmd)

	runCmd.Flags().String("since", "", "Journal window in journalctl --since syntax (default: JOURNAL_SINCE or '24 hours ago')")
	runCmd.Flags().String("file", "", "Analyze a saved dmesg log file instead of live sources (local mode)")
	runCmd.Flags().Bool("no-tui", false, "Print the report as plain text instead of the interactive viewer")
	viewCmd.Flags().Bool("no-tui", false, "Print the report as plain text instead of the interactive viewer")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
