package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var reindexForce bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Refresh note embeddings",
	Long: `Generate embeddings for notes whose embedding is missing or stale.

With --force every non-empty note is re-embedded, which is needed after
switching the embedding model.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexForce, "force", false, "re-embed every note")
}

func runReindex(cmd *cobra.Command, args []string) error {
	return runReindexProgress(context.Background(), reindexForce)
}
