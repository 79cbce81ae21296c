package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/veracitylab/veracity/internal/model"
)

// Embedder converts text into a fixed-dimension vector.
// The dimension is fixed per deployment; mixing dimensions in one
// store index is a configuration error, not a runtime condition.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dim() int
}

// NewEmbedder creates an embedder from configuration.
func NewEmbedder(cfg model.EmbeddingConfig, dim int) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIEmbedder(cfg, dim)

	case "":
		return nil, fmt.Errorf("%w: no embedding provider configured", model.ErrEmbeddingUnavailable)

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider: %s (supported: openai)", model.ErrEmbeddingUnavailable, cfg.Provider)
	}
}
