package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/veracitylab/veracity/internal/embed"
	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/store"
)

// Ranker merges nearest-neighbor hits from one or more evidence pools
// into a single relevance-ordered list.
type Ranker struct {
	embedder embed.Embedder
	store    store.Store
}

// NewRanker creates a ranker over the given embedder and store.
func NewRanker(embedder embed.Embedder, st store.Store) *Ranker {
	return &Ranker{embedder: embedder, store: st}
}

// Search embeds the query once, collects up to topK candidates from
// each pool in the order given, and returns the merged list sorted by
// score descending, truncated to topK. Equal scores keep pool
// submission order, so document hits sort ahead of conversation hits
// when callers pass the document pool first.
func (r *Ranker) Search(ctx context.Context, query string, topK int, pools []store.PoolSelector) ([]model.RankedResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be >= 1, got %d", model.ErrMalformedInput, topK)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", model.ErrMalformedInput)
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var candidates []model.EvidenceItem
	for _, pool := range pools {
		items, err := r.store.Nearest(ctx, vector, pool, topK)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, items...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score() > candidates[j].Score()
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]model.RankedResult, 0, len(candidates))
	for _, item := range candidates {
		results = append(results, model.RankedResult{
			ID:       item.ID,
			Content:  item.Content,
			Score:    item.Score(),
			Metadata: item.Metadata,
			Source:   item.Source,
		})
	}
	return results, nil
}
