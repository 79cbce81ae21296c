package model

import "time"

// Pool names a collection of evidence items sharing a nearest-neighbor index.
type Pool string

const (
	PoolDocument     Pool = "document"     // Global document pool
	PoolConversation Pool = "conversation" // One conversation's message history
)

// EvidenceItem is a single nearest-neighbor hit returned by the evidence store.
// Distance is a cosine distance in [0,2]; lower is more similar.
// Items are never mutated after the store returns them.
type EvidenceItem struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Source     string                 `json:"source,omitempty"`
	SourcePool Pool                   `json:"source_pool"`
	Distance   float64                `json:"distance"`
}

// Score converts cosine distance to a similarity score (1 = identical direction).
func (e EvidenceItem) Score() float64 {
	return 1 - e.Distance
}

// RankedResult is a merged, scored search hit handed to callers.
// A returned list is sorted by Score descending; ties keep pool
// submission order (documents before conversation messages).
type RankedResult struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Source   string                 `json:"source"`
}

// Document is a standalone piece of evidence to store in the document pool.
type Document struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Source    string                 `json:"source"`
	SourceURL string                 `json:"source_url,omitempty"`
}

// Message is one conversation turn to store in a conversation pool.
// Timestamp is optional RFC 3339; empty means "now".
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ContextItem is one entry of retrieved conversation context.
type ContextItem struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score,omitempty"` // Set only for relevance-ordered retrieval
}
