package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the note relationship graph",
	Long: `Print every edge in the relationship graph.

Edges come from [[wikilinks]] (explicit), embedding similarity (inferred),
and shared #tags (tag-overlap). When two notes are related in more than
one way, the strongest source wins.`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if remote != nil {
		return printRemoteGraph(ctx)
	}

	all, err := notes.List(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	titles := make(map[string]string, len(all))
	for _, n := range all {
		titles[n.ID] = n.Title
	}

	edges, err := notes.Edges(ctx)
	if err != nil {
		return fmt.Errorf("compute edges: %w", err)
	}
	if len(edges) == 0 {
		fmt.Println("No relationships found.")
		return nil
	}

	for _, e := range edges {
		fmt.Printf("%s <-> %s  [%s]\n", titles[e.A], titles[e.B], e.Style)
	}
	return nil
}

func printRemoteGraph(ctx context.Context) error {
	g, err := remote.Graph(ctx)
	if err != nil {
		return fmt.Errorf("fetch graph: %w", err)
	}
	if len(g.Links) == 0 {
		fmt.Println("No relationships found.")
		return nil
	}

	titles := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		titles[n.ID] = n.Title
	}
	for _, l := range g.Links {
		fmt.Printf("%s <-> %s  [%s]\n", titles[l.Source], titles[l.Target], l.Style)
	}
	return nil
}
