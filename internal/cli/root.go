// Package cli provides the command-line interface for SmartNotes.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/agent"
	"github.com/avholm/smartnotes/internal/client"
	"github.com/avholm/smartnotes/internal/config"
	"github.com/avholm/smartnotes/internal/graph"
	"github.com/avholm/smartnotes/internal/index"
	"github.com/avholm/smartnotes/internal/llm"
	"github.com/avholm/smartnotes/internal/metrics"
	"github.com/avholm/smartnotes/internal/rag"
	"github.com/avholm/smartnotes/internal/service"
	"github.com/avholm/smartnotes/internal/store"
	"github.com/avholm/smartnotes/internal/store/sqlite"
	"github.com/avholm/smartnotes/internal/store/surreal"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Wired in PersistentPreRunE for every command except version/help.
	cfg       config.Config
	st        store.Store
	collector *metrics.Collector
	ix        *index.Index
	notes     *service.Notes

	// Set instead of the locals above when --server is given; commands then
	// go through the HTTP API of a running serve instance.
	remote *client.Client

	// Lazy-initialized chat model
	model *llm.Model

	closeLog func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "smartnotes",
	Short: "Local-first smart note-taking",
	Long: `SmartNotes is a local-first note-taking app with semantic search,
automatic note linking, and a tool-using AI assistant.

Notes live in a local database, embeddings come from a local or remote
inference service, and relationships between notes are resolved from
[[wikilinks]], shared #tags, and embedding similarity.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// stats reads a running server's in-memory counters, so it always
		// goes over HTTP even without --server.
		if serverURL != "" || cmd.Name() == "stats" {
			switch cmd.Name() {
			case "serve", "mcp", "reindex":
				return fmt.Errorf("%s needs local database access and cannot run against a remote server", cmd.Name())
			}
			remote = client.New(serverURL)
			return nil
		}

		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, cleanup := config.SetupLogger(cfg.LogFile, level)
		slog.SetDefault(logger)
		closeLog = cleanup

		ctx := context.Background()
		var err error
		switch cfg.StoreBackend {
		case config.StoreSurreal:
			st, err = surreal.Open(ctx, surreal.Config{
				URL:       cfg.SurrealDBURL,
				Namespace: cfg.SurrealDBNamespace,
				Database:  cfg.SurrealDBDatabase,
				Username:  cfg.SurrealDBUser,
				Password:  cfg.SurrealDBPass,
			}, nil)
		default:
			st, err = sqlite.Open(cfg.SQLitePath)
		}
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		collector = metrics.NewCollector()
		embedder, err := llm.NewEmbedder(cfg, collector)
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}
		ix = index.New(st, embedder, collector)
		linker := graph.NewAutoLinker(st, ix, collector)
		notes = service.NewNotes(st, ix, linker)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if notes != nil {
			notes.Wait()
		}
		if st != nil {
			if err := st.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
		if closeLog != nil {
			_ = closeLog()
		}
	},
}

// getLoop lazily initializes the chat model and builds the agent loop.
func getLoop() (*agent.Loop, error) {
	if model == nil {
		var err error
		model, err = llm.NewModel(cfg, collector)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}

	registry := agent.NewRegistry(notes)
	assembler := rag.New(st, ix)
	return agent.NewLoop(model, registry, assembler, cfg.MaxAgentTurns, cfg.ChatTimeout, cfg.HistoryWindow), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"URL of a running smartnotes server; commands go through its HTTP API instead of the local database")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(statsCmd)
}
