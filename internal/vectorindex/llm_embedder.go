package vectorindex

import (
	"context"

	"glamvoice/internal/ai"
)

// LLMEmbedder adapts the OpenAI-compatible client to the Embedder interface
// with a fixed model configuration.
type LLMEmbedder struct {
	client *ai.OpenAICompatibleClient
	cfg    ai.EmbeddingConfig
}

func NewLLMEmbedder(client *ai.OpenAICompatibleClient, cfg ai.EmbeddingConfig) *LLMEmbedder {
	return &LLMEmbedder{client: client, cfg: cfg}
}

func (e *LLMEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, e.cfg, text)
}

func (e *LLMEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.EmbedBatch(ctx, e.cfg, texts)
}
