package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veracitylab/veracity/internal/embed"
	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/store"
)

// Memory stores conversation turns as embedded evidence and retrieves
// them as context, either chronologically or by relevance to a query.
type Memory struct {
	embedder embed.Embedder
	store    store.Store
}

// NewMemory creates a conversation memory over the given embedder and store.
func NewMemory(embedder embed.Embedder, st store.Store) *Memory {
	return &Memory{embedder: embedder, store: st}
}

// StoreMessage embeds and stores one conversation turn, returning the
// stored id. Ids are namespaced "<conversation_id>:<row_id>" so they
// can never collide with document ids. An empty timestamp means now;
// an unparseable one is a request error.
func (m *Memory) StoreMessage(ctx context.Context, conversationID string, msg model.Message) (string, error) {
	if conversationID == "" {
		return "", fmt.Errorf("%w: conversation id must not be empty", model.ErrMalformedInput)
	}
	if msg.Content == "" {
		return "", fmt.Errorf("%w: message content must not be empty", model.ErrMalformedInput)
	}

	ts := time.Now().UTC()
	if msg.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, msg.Timestamp)
		if err != nil {
			return "", fmt.Errorf("%w: timestamp %q is not RFC 3339: %v", model.ErrMalformedInput, msg.Timestamp, err)
		}
		ts = parsed
	}

	vector, err := m.embedder.Embed(ctx, msg.Content)
	if err != nil {
		return "", err
	}

	id := conversationID + ":" + uuid.NewString()
	err = m.store.Upsert(ctx, store.Item{
		ID:      id,
		Content: msg.Content,
		Vector:  vector,
		Metadata: map[string]interface{}{
			"role":      msg.Role,
			"timestamp": ts.Format(time.RFC3339),
		},
		Source:         conversationID,
		Pool:           model.PoolConversation,
		ConversationID: conversationID,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// StoreMessages stores a batch of turns in order. The first failure
// aborts the batch; already-stored turns are kept.
func (m *Memory) StoreMessages(ctx context.Context, conversationID string, msgs []model.Message) ([]string, error) {
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		id, err := m.StoreMessage(ctx, conversationID, msg)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetContext returns up to limit context items for a conversation.
// Without a query the items come back oldest first; with a query they
// come back by relevance, nearest first, with scores set.
func (m *Memory) GetContext(ctx context.Context, conversationID, query string, limit int) ([]model.ContextItem, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be >= 1, got %d", model.ErrMalformedInput, limit)
	}

	var (
		items []model.EvidenceItem
		err   error
	)
	if query == "" {
		items, err = m.store.Recent(ctx, conversationID, limit)
	} else {
		var vector []float32
		vector, err = m.embedder.Embed(ctx, query)
		if err != nil {
			return nil, err
		}
		items, err = m.store.Nearest(ctx, vector, store.Conversation(conversationID), limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.ContextItem, 0, len(items))
	for _, item := range items {
		ci := model.ContextItem{
			ID:      item.ID,
			Content: item.Content,
		}
		if role, ok := item.Metadata["role"].(string); ok {
			ci.Role = role
		}
		if raw, ok := item.Metadata["timestamp"].(string); ok {
			if ts, err := time.Parse(time.RFC3339, raw); err == nil {
				ci.Timestamp = ts
			}
		}
		if query != "" {
			ci.Score = item.Score()
		}
		out = append(out, ci)
	}
	return out, nil
}

// DeleteConversation removes every stored turn of one conversation.
func (m *Memory) DeleteConversation(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("%w: conversation id must not be empty", model.ErrMalformedInput)
	}
	return m.store.DeletePool(ctx, conversationID)
}
