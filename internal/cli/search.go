package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/embed"
	"github.com/veracitylab/veracity/internal/pipeline"
	"github.com/veracitylab/veracity/internal/store"
)

var (
	searchTopK           int
	searchConversationID string
	searchJSONOutput     bool
	searchTimeout        time.Duration
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored evidence by semantic relevance",
	Long: `Search embeds the query and returns the most relevant stored
documents. With --conversation, one conversation's history is merged
into the results by score (hybrid search).

Requires a configured evidence store (store.dsn) and embedding
provider (OPENAI_API_KEY).

Example:
  veracity search "Q3 revenue growth"
  veracity search "deployment steps" --top-k 10 --conversation conv-42`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchTopK, "top-k", 5, "maximum number of results")
	searchCmd.Flags().StringVar(&searchConversationID, "conversation", "", "conversation id to merge into the results")
	searchCmd.Flags().BoolVar(&searchJSONOutput, "json", false, "print results as JSON")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 60*time.Second, "total timeout for the search")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	cfg := loadConfig()

	embedder, err := embed.NewEmbedder(cfg.Embedding, cfg.Store.EmbeddingDim)
	if err != nil {
		return err
	}

	pgStore, err := store.NewPGStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = pgStore.Close() }()

	service := pipeline.NewService(cfg, embedder, pgStore)

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	results, err := service.HybridSearch(ctx, query, searchTopK, searchConversationID)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if searchJSONOutput {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. [%.3f] %s\n", i+1, r.Score, r.ID)
		fmt.Printf("   %s\n", snippetLine(r.Content))
	}
	return nil
}

func snippetLine(content string) string {
	const maxLen = 120
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
