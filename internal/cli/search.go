package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/models"
)

var (
	searchSemantic bool
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes by text or by meaning",
	Long: `Search notes. By default this is a plain text match over titles and
bodies; with --semantic the query is embedded and notes are ranked by
cosine similarity instead.

Examples:
  smartnotes search "standup"
  smartnotes search "how do I deploy the blog" --semantic
  smartnotes search "recipes" --semantic -n 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", false, "rank by embedding similarity")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "max results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := context.Background()

	if searchSemantic {
		if remote != nil {
			return errors.New("--semantic needs local database access; drop --server")
		}
		return semanticSearch(ctx, query)
	}

	var results []models.Note
	var err error
	if remote != nil {
		results, err = remote.Search(ctx, query)
	} else {
		results, err = notes.SearchText(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, n := range results {
		fmt.Printf("%d. %s\n", i+1, n.Title)
		if body := firstLine(n.Body); body != "" {
			fmt.Printf("   %s\n", body)
		}
	}
	return nil
}

func semanticSearch(ctx context.Context, query string) error {
	hits, err := ix.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("semantic search: %w", err)
	}
	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(hits))
	for i, hit := range hits {
		n, err := notes.Get(ctx, hit.NoteID)
		if err != nil {
			continue
		}
		fmt.Printf("%d. %s (%.2f)\n", i+1, n.Title, hit.Score)
		if body := firstLine(n.Body); body != "" {
			fmt.Printf("   %s\n", body)
		}
	}
	return nil
}

func firstLine(body string) string {
	line := strings.TrimSpace(strings.SplitN(body, "\n", 2)[0])
	if len(line) > 100 {
		line = line[:100] + "..."
	}
	return line
}
