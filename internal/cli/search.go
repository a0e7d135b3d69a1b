package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ragstore/internal/config"
	"ragstore/internal/ui"
	"ragstore/internal/vectorstore"
)

var (
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query> [path]",
	Short: "Search uploaded documents by keyword relevance",
	Long: `Rank completed documents against a query.

With the in-memory backend a path argument is ingested first, the way a
test harness would seed the store; with the OpenAI backend the search
runs against the configured remote vector store.

Examples:
  # Search a directory of documents
  ragstore search "how are embeddings cached" ./docs

  # Limit results and require a minimum relevance
  ragstore search "error handling" ./docs -m 5 --threshold 0.5`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearchCmd,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "m", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", -1, "minimum relevance score (0-1)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg := config.Get()

	limit := searchLimit
	if limit <= 0 {
		limit = cfg.Search.Limit
	}
	threshold := searchThreshold
	if threshold < 0 {
		threshold = cfg.Search.Threshold
	}

	log.Debug("Starting search", "query", query, "limit", limit, "threshold", threshold)

	ctx, cancel := signalContext()
	defer cancel()

	client, err := vectorstore.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create store client: %w", err)
	}
	defer client.Close()

	// The memory backend starts empty every run; seed it from the given
	// path before searching.
	if len(args) > 1 && cfg.Store.Backend == "memory" {
		if _, err := ingestPath(ctx, client, cfg, args[1], true); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	results, err := client.Search(ctx, query, vectorstore.SearchOptions{
		Limit:     limit,
		Threshold: threshold,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("search failed: %w", err)
	}

	persistStoreID(cfg, client)

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	displayResults(results)
	return nil
}

// displayResults formats and displays search results.
func displayResults(results []vectorstore.SearchResult) {
	fmt.Printf("Found %d results:\n\n", len(results))

	for i, r := range results {
		fmt.Printf("%s %s %s\n",
			ui.Highlight.Render(fmt.Sprintf("[%d]", i+1)),
			ui.FilePath.Render(r.Filename),
			ui.FormatScore(r.Score),
		)
		if r.Snippet != "" {
			fmt.Printf("    %s\n", ui.Dim.Render(r.Snippet))
		}
		fmt.Println()
	}
}
