package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/veracitylab/veracity/internal/model"
)

// PGStore implements Store on PostgreSQL with the pgvector extension.
// One table holds both pools; cosine distance drives nearest-neighbor
// queries.
type PGStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPGStore connects to Postgres, ensures the schema exists, and
// returns a ready store. embeddingDim fixes the vector column width
// for the deployment.
func NewPGStore(cfg model.StoreConfig) (*PGStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: store DSN is required", model.ErrStoreUnavailable)
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", model.ErrStoreUnavailable, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	s := &PGStore{db: db, timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping: %v", model.ErrStoreUnavailable, err)
	}

	if err := s.initSchema(ctx, cfg.EmbeddingDim); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *PGStore) initSchema(ctx context.Context, dim int) error {
	if dim <= 0 {
		dim = 1536
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS evidence (
			id              TEXT PRIMARY KEY,
			content         TEXT NOT NULL,
			embedding       vector(%d) NOT NULL,
			metadata        JSONB NOT NULL DEFAULT '{}',
			source          TEXT NOT NULL DEFAULT '',
			pool            TEXT NOT NULL,
			conversation_id TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, dim),
		`CREATE INDEX IF NOT EXISTS evidence_pool_idx ON evidence (pool, conversation_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: init schema: %v", model.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PGStore) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces an item by id.
func (s *PGStore) Upsert(ctx context.Context, item Item) error {
	meta, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("%w: encode metadata: %v", model.ErrMalformedInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evidence (id, content, embedding, metadata, source, pool, conversation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			source = EXCLUDED.source,
			pool = EXCLUDED.pool,
			conversation_id = EXCLUDED.conversation_id`,
		item.ID, item.Content, pgvector.NewVector(item.Vector), meta,
		item.Source, string(item.Pool), item.ConversationID)
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes an item by id. Absent ids are a no-op.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM evidence WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// Nearest returns up to k items from the selected pool ordered by
// cosine distance, nearest first.
func (s *PGStore) Nearest(ctx context.Context, vector []float32, pool PoolSelector, k int) ([]model.EvidenceItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, source, embedding <=> $1 AS distance
		FROM evidence
		WHERE pool = $2 AND conversation_id = $3
		ORDER BY distance
		LIMIT $4`,
		pgvector.NewVector(vector), string(pool.Pool), pool.ConversationID, k)
	if err != nil {
		return nil, fmt.Errorf("%w: nearest query: %v", model.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return s.scanItems(rows, pool.Pool)
}

// Recent returns up to limit conversation items, oldest first.
func (s *PGStore) Recent(ctx context.Context, conversationID string, limit int) ([]model.EvidenceItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, source, 0.0 AS distance
		FROM evidence
		WHERE pool = $1 AND conversation_id = $2
		ORDER BY created_at
		LIMIT $3`,
		string(model.PoolConversation), conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent query: %v", model.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return s.scanItems(rows, model.PoolConversation)
}

// DeletePool removes every item of one conversation.
func (s *PGStore) DeletePool(ctx context.Context, conversationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM evidence WHERE pool = $1 AND conversation_id = $2`,
		string(model.PoolConversation), conversationID)
	if err != nil {
		return fmt.Errorf("%w: delete pool: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PGStore) scanItems(rows *sql.Rows, pool model.Pool) ([]model.EvidenceItem, error) {
	var items []model.EvidenceItem
	for rows.Next() {
		var (
			item model.EvidenceItem
			meta []byte
		)
		if err := rows.Scan(&item.ID, &item.Content, &meta, &item.Source, &item.Distance); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", model.ErrStoreUnavailable, err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &item.Metadata); err != nil {
				return nil, fmt.Errorf("%w: decode metadata: %v", model.ErrStoreUnavailable, err)
			}
		}
		item.SourcePool = pool
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", model.ErrStoreUnavailable, err)
	}
	return items, nil
}
