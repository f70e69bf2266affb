package rag

import (
	"context"

	"glamvoice/internal/ai"
	"glamvoice/internal/vectorindex"
)

// LLMReformulator rewrites follow-up questions with the chat model.
type LLMReformulator struct {
	client *ai.OpenAICompatibleClient
	cfg    ai.ChatConfig
}

func NewLLMReformulator(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig) *LLMReformulator {
	return &LLMReformulator{client: client, cfg: cfg}
}

func (r *LLMReformulator) Reformulate(ctx context.Context, question string, history []Exchange) (string, error) {
	messages := make([]ai.ChatMessage, 0, len(history)*2+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: contextualizePrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, ai.ChatMessage{Role: "user", Content: question})
	return r.client.Complete(ctx, r.cfg, messages)
}

// LLMGenerator produces answers with the chat model.
type LLMGenerator struct {
	client *ai.OpenAICompatibleClient
	cfg    ai.ChatConfig
}

func NewLLMGenerator(client *ai.OpenAICompatibleClient, cfg ai.ChatConfig) *LLMGenerator {
	return &LLMGenerator{client: client, cfg: cfg}
}

// WithModel returns a generator bound to another model from the catalog.
func (g *LLMGenerator) WithModel(model string) *LLMGenerator {
	cfg := g.cfg
	cfg.Model = model
	return &LLMGenerator{client: g.client, cfg: cfg}
}

// Model returns the chat model identifier this generator calls.
func (g *LLMGenerator) Model() string {
	return g.cfg.Model
}

func (g *LLMGenerator) Generate(ctx context.Context, system string, history []Exchange, question string) (string, error) {
	messages := make([]ai.ChatMessage, 0, len(history)*2+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: system})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, ai.ChatMessage{Role: "user", Content: question})
	return g.client.Complete(ctx, g.cfg, messages)
}

func historyMessages(history []Exchange) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, len(history)*2)
	for _, ex := range history {
		messages = append(messages, ai.ChatMessage{Role: "user", Content: ex.Question})
		messages = append(messages, ai.ChatMessage{Role: "assistant", Content: ex.Answer})
	}
	return messages
}

// IndexRetriever retrieves chunk texts from the vector index.
type IndexRetriever struct {
	index *vectorindex.Index
	topK  int
}

func NewIndexRetriever(index *vectorindex.Index, topK int) *IndexRetriever {
	if topK <= 0 {
		topK = 3
	}
	return &IndexRetriever{index: index, topK: topK}
}

func (r *IndexRetriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	matches, err := r.index.Query(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return texts, nil
}
