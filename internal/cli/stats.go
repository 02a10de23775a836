package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show runtime statistics of a running server",
	Long: `Show the in-memory operation timings of a running smartnotes server.

The server resolves from --server, SMARTNOTES_SERVER_URL, or the default
localhost address. Counters reset when the server restarts.

Examples:
  smartnotes stats
  smartnotes stats --server http://localhost:8000`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	snap, err := remote.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	fmt.Printf("Server statistics (in-memory, since start)\n")
	fmt.Printf("Uptime: %.1f seconds\n", snap.UptimeSeconds)

	if len(snap.Operations) == 0 {
		fmt.Println("\nNo operations recorded yet.")
		return nil
	}

	names := make([]string, 0, len(snap.Operations))
	for name := range snap.Operations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("\n%s:\n", name)
		printOpStats(snap.Operations[name])
	}
	return nil
}

func printOpStats(op metrics.OperationSnapshot) {
	fmt.Printf("  Calls: %d, Total: %dms\n", op.Count, op.TotalTimeMs)
	fmt.Printf("  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
