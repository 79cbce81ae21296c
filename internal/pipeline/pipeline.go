package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/veracitylab/veracity/internal/cache"
	"github.com/veracitylab/veracity/internal/embed"
	"github.com/veracitylab/veracity/internal/extract"
	"github.com/veracitylab/veracity/internal/memory"
	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/rank"
	"github.com/veracitylab/veracity/internal/store"
	"github.com/veracitylab/veracity/internal/verify"
)

// sourceFoundThreshold is the minimum relevance score for CheckSource
// to report a non-URL source as found in the document pool.
const sourceFoundThreshold = 0.5

// Service is the top-level facade: document storage, retrieval,
// conversation memory, and response verification behind one API.
type Service struct {
	embedder embed.Embedder
	store    store.Store
	ranker   *rank.Ranker
	memory   *memory.Memory
	engine   *verify.Engine
	urls     *verify.URLChecker
	config   *model.Config
}

// NewService assembles a service from configuration plus its two
// external capabilities (embedder and store), which callers construct
// and own.
func NewService(cfg *model.Config, embedder embed.Embedder, st store.Store) *Service {
	urls := verify.NewURLChecker(cfg.HTTP, cfg.Verify.URLTimeout)

	engine := verify.NewEngine(
		verify.NewVerifier(urls),
		verify.NewScorer(cfg.Verify.AllowVacuous, cfg.Verify.Disclaimer),
		cache.NewVerdictCache(cfg.Verify.CacheTTL),
		cfg.Concurrency.VerifyWorkers,
	)

	return &Service{
		embedder: embedder,
		store:    st,
		ranker:   rank.NewRanker(embedder, st),
		memory:   memory.NewMemory(embedder, st),
		engine:   engine,
		urls:     urls,
		config:   cfg,
	}
}

// StoreDocument embeds and stores a document in the document pool.
// HTML content is reduced to its visible text before embedding. The
// stored id is returned; an empty incoming id gets a generated one.
func (s *Service) StoreDocument(ctx context.Context, doc model.Document) (string, error) {
	if doc.Content == "" {
		return "", fmt.Errorf("%w: document content must not be empty", model.ErrMalformedInput)
	}

	content := doc.Content
	if looksLikeHTML(content) {
		text, err := extract.VisibleText(content)
		if err == nil && text != "" {
			content = text
		}
	}

	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return "", err
	}

	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := doc.Metadata
	if doc.SourceURL != "" {
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		metadata["source_url"] = doc.SourceURL
	}

	err = s.store.Upsert(ctx, store.Item{
		ID:       id,
		Content:  content,
		Vector:   vector,
		Metadata: metadata,
		Source:   doc.Source,
		Pool:     model.PoolDocument,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteDocument removes a document by id.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: document id must not be empty", model.ErrMalformedInput)
	}
	return s.store.Delete(ctx, id)
}

// Search returns the topK most relevant documents for a query.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]model.RankedResult, error) {
	return s.ranker.Search(ctx, query, topK, []store.PoolSelector{store.Documents()})
}

// HybridSearch merges document hits with one conversation's history.
// With an empty conversation id it degrades to a plain document search.
func (s *Service) HybridSearch(ctx context.Context, query string, topK int, conversationID string) ([]model.RankedResult, error) {
	pools := []store.PoolSelector{store.Documents()}
	if conversationID != "" {
		pools = append(pools, store.Conversation(conversationID))
	}
	return s.ranker.Search(ctx, query, topK, pools)
}

// StoreMessage stores one conversation turn.
func (s *Service) StoreMessage(ctx context.Context, conversationID string, msg model.Message) (string, error) {
	return s.memory.StoreMessage(ctx, conversationID, msg)
}

// StoreMessages stores a batch of conversation turns in order.
func (s *Service) StoreMessages(ctx context.Context, conversationID string, msgs []model.Message) ([]string, error) {
	return s.memory.StoreMessages(ctx, conversationID, msgs)
}

// GetContext retrieves conversation context, chronological without a
// query and relevance-ordered with one.
func (s *Service) GetContext(ctx context.Context, conversationID, query string, limit int) ([]model.ContextItem, error) {
	return s.memory.GetContext(ctx, conversationID, query, limit)
}

// DeleteConversation removes a conversation's stored history.
func (s *Service) DeleteConversation(ctx context.Context, conversationID string) error {
	return s.memory.DeleteConversation(ctx, conversationID)
}

// Verify produces a cached verdict for a response text. The session id
// labels the request for callers; it does not partition the cache,
// which is keyed by the exact response text.
func (s *Service) Verify(ctx context.Context, sessionID, responseText string, claimedSources []string, contextBlob map[string]interface{}) (*model.VerificationVerdict, error) {
	if responseText == "" {
		return nil, fmt.Errorf("%w: response text must not be empty", model.ErrMalformedInput)
	}
	_ = sessionID
	return s.engine.Verify(ctx, responseText, claimedSources, contextBlob)
}

// CheckSource checks one source string in isolation. URLs are checked
// for reachability; anything else is searched in the document pool and
// reported found when the best hit clears the relevance threshold.
func (s *Service) CheckSource(ctx context.Context, source string) (*model.SourceCheck, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: source must not be empty", model.ErrMalformedInput)
	}

	if verify.IsURL(source) {
		ok, snippet := s.urls.Check(ctx, source)
		return &model.SourceCheck{
			Source:  source,
			Found:   ok,
			Snippet: snippet,
			URL:     source,
		}, nil
	}

	results, err := s.ranker.Search(ctx, source, 1, []store.PoolSelector{store.Documents()})
	if err != nil {
		return nil, err
	}

	check := &model.SourceCheck{Source: source}
	if len(results) > 0 && results[0].Score >= sourceFoundThreshold {
		check.Found = true
		check.Snippet = snippetOf(results[0].Content)
	}
	return check, nil
}

// looksLikeHTML is a cheap guard so plain text skips the HTML parser.
func looksLikeHTML(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}

func snippetOf(content string) string {
	const maxLen = 200
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
