package store

import (
	"context"

	"github.com/veracitylab/veracity/internal/model"
)

// PoolSelector identifies one evidence pool to query.
type PoolSelector struct {
	Pool           model.Pool
	ConversationID string // Set only for conversation pools
}

// Documents selects the global document pool.
func Documents() PoolSelector {
	return PoolSelector{Pool: model.PoolDocument}
}

// Conversation selects one conversation's message pool.
func Conversation(id string) PoolSelector {
	return PoolSelector{Pool: model.PoolConversation, ConversationID: id}
}

// Item is a row to insert or replace in the store.
type Item struct {
	ID             string
	Content        string
	Vector         []float32
	Metadata       map[string]interface{}
	Source         string
	Pool           model.Pool
	ConversationID string
}

// Store is the evidence store adapter: a persistent vector index that
// can insert, delete, and return approximate nearest neighbors by
// cosine distance, partitioned into a global document pool and
// per-conversation message pools.
type Store interface {
	// Upsert inserts or replaces an item by id.
	Upsert(ctx context.Context, item Item) error

	// Delete removes an item by id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Nearest returns up to k items from the selected pool, nearest first.
	Nearest(ctx context.Context, vector []float32, pool PoolSelector, k int) ([]model.EvidenceItem, error)

	// Recent returns up to limit conversation items, oldest first.
	Recent(ctx context.Context, conversationID string, limit int) ([]model.EvidenceItem, error)

	// DeletePool removes every item of one conversation.
	DeletePool(ctx context.Context, conversationID string) error
}
