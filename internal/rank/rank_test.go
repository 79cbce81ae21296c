package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/store"
)

type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Dim() int { return 3 }

type stubStore struct {
	byPool map[model.Pool][]model.EvidenceItem
	err    error
}

func (s *stubStore) Upsert(ctx context.Context, item store.Item) error { return nil }
func (s *stubStore) Delete(ctx context.Context, id string) error       { return nil }

func (s *stubStore) Nearest(ctx context.Context, vector []float32, pool store.PoolSelector, k int) ([]model.EvidenceItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := s.byPool[pool.Pool]
	if len(items) > k {
		items = items[:k]
	}
	return items, nil
}

func (s *stubStore) Recent(ctx context.Context, conversationID string, limit int) ([]model.EvidenceItem, error) {
	return nil, nil
}

func (s *stubStore) DeletePool(ctx context.Context, conversationID string) error { return nil }

func TestSearch_MergesAndSortsAcrossPools(t *testing.T) {
	st := &stubStore{byPool: map[model.Pool][]model.EvidenceItem{
		model.PoolDocument: {
			{ID: "doc-a", Content: "a", SourcePool: model.PoolDocument, Distance: 0.1}, // score 0.9
			{ID: "doc-b", Content: "b", SourcePool: model.PoolDocument, Distance: 0.3}, // score 0.7
		},
		model.PoolConversation: {
			{ID: "conv-1:m1", Content: "m", SourcePool: model.PoolConversation, Distance: 0.05}, // score 0.95
		},
	}}
	emb := &stubEmbedder{}
	ranker := NewRanker(emb, st)

	results, err := ranker.Search(context.Background(), "query", 5, []store.PoolSelector{
		store.Documents(),
		store.Conversation("conv-1"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if emb.calls != 1 {
		t.Errorf("Expected query embedded exactly once, got %d calls", emb.calls)
	}

	wantIDs := []string{"conv-1:m1", "doc-a", "doc-b"}
	if len(results) != len(wantIDs) {
		t.Fatalf("Expected %d results, got %d", len(wantIDs), len(results))
	}
	for i, want := range wantIDs {
		if results[i].ID != want {
			t.Errorf("Result %d: expected id %s, got %s", i, want, results[i].ID)
		}
	}
	if results[0].Score != 0.95 {
		t.Errorf("Expected top score 0.95, got %v", results[0].Score)
	}
}

func TestSearch_TiesKeepPoolOrder(t *testing.T) {
	st := &stubStore{byPool: map[model.Pool][]model.EvidenceItem{
		model.PoolDocument: {
			{ID: "doc-a", SourcePool: model.PoolDocument, Distance: 0.2},
		},
		model.PoolConversation: {
			{ID: "conv-1:m1", SourcePool: model.PoolConversation, Distance: 0.2},
		},
	}}
	ranker := NewRanker(&stubEmbedder{}, st)

	results, err := ranker.Search(context.Background(), "query", 5, []store.PoolSelector{
		store.Documents(),
		store.Conversation("conv-1"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "doc-a" {
		t.Errorf("Expected document hit first on equal score, got %s", results[0].ID)
	}
}

func TestSearch_TruncatesToTopK(t *testing.T) {
	st := &stubStore{byPool: map[model.Pool][]model.EvidenceItem{
		model.PoolDocument: {
			{ID: "doc-a", Distance: 0.1},
			{ID: "doc-b", Distance: 0.2},
			{ID: "doc-c", Distance: 0.3},
		},
	}}
	ranker := NewRanker(&stubEmbedder{}, st)

	results, err := ranker.Search(context.Background(), "query", 2, []store.PoolSelector{store.Documents()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "doc-a" || results[1].ID != "doc-b" {
		t.Errorf("Expected two nearest hits, got %v, %v", results[0].ID, results[1].ID)
	}
}

func TestSearch_InvalidTopK(t *testing.T) {
	ranker := NewRanker(&stubEmbedder{}, &stubStore{})

	_, err := ranker.Search(context.Background(), "query", 0, []store.PoolSelector{store.Documents()})
	if !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("Expected ErrMalformedInput, got %v", err)
	}
}

func TestSearch_EmbedderFailureIsFatal(t *testing.T) {
	emb := &stubEmbedder{err: model.ErrEmbeddingUnavailable}
	ranker := NewRanker(emb, &stubStore{})

	_, err := ranker.Search(context.Background(), "query", 3, []store.PoolSelector{store.Documents()})
	if !errors.Is(err, model.ErrEmbeddingUnavailable) {
		t.Errorf("Expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestSearch_StoreFailureIsFatal(t *testing.T) {
	st := &stubStore{err: model.ErrStoreUnavailable}
	ranker := NewRanker(&stubEmbedder{}, st)

	_, err := ranker.Search(context.Background(), "query", 3, []store.PoolSelector{store.Documents()})
	if !errors.Is(err, model.ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
}
