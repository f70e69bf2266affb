package rag

import (
	"context"
	"log"
	"strings"

	"glamvoice/internal/apperr"
)

// Exchange is one past question/answer pair of the session, oldest first
// when passed as history.
type Exchange struct {
	Question string
	Answer   string
}

// Mode records how the retrieval query was produced.
type Mode string

const (
	// HistoryAware means the question was reformulated against the history.
	HistoryAware Mode = "history_aware"
	// Standalone means the raw question was used: either the session had no
	// history or reformulation failed and the pipeline degraded.
	Standalone Mode = "standalone"
)

// Reformulator rewrites a follow-up question into a standalone query.
type Reformulator interface {
	Reformulate(ctx context.Context, question string, history []Exchange) (string, error)
}

// Retriever returns the text chunks most relevant to the query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}

// Generator produces the final answer from a system prompt, the history,
// and the user question.
type Generator interface {
	Generate(ctx context.Context, system string, history []Exchange, question string) (string, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Answer   string
	Mode     Mode
	Contexts []string
}

// Pipeline chains reformulation, retrieval, and generation. Reformulation
// and retrieval degrade on failure; only generation failure is fatal,
// because without it there is nothing to return.
type Pipeline struct {
	reformulator Reformulator
	retriever    Retriever
	generator    Generator
}

func NewPipeline(reformulator Reformulator, retriever Retriever, generator Generator) *Pipeline {
	return &Pipeline{
		reformulator: reformulator,
		retriever:    retriever,
		generator:    generator,
	}
}

// Answer runs the full chain for one question.
func (p *Pipeline) Answer(ctx context.Context, question string, history []Exchange) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, apperr.Validation("question is empty")
	}

	query := question
	mode := Standalone
	if len(history) > 0 {
		reformulated, err := p.reformulator.Reformulate(ctx, question, history)
		if err != nil {
			log.Printf("[rag] reformulation failed, using raw question: %v", err)
		} else if s := strings.TrimSpace(reformulated); s != "" {
			query = s
			mode = HistoryAware
		}
	}

	contexts := p.retrieve(ctx, query)

	system := buildQASystemPrompt(contexts)
	answer, err := p.generator.Generate(ctx, system, history, question)
	if err != nil {
		return Result{}, apperr.Upstream(err, "answer generation failed")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Result{}, apperr.Upstream(nil, "model returned an empty answer")
	}

	return Result{Answer: answer, Mode: mode, Contexts: contexts}, nil
}

// retrieve tries the vector search twice, then degrades to an empty context
// so a flaky index does not take chat down with it.
func (p *Pipeline) retrieve(ctx context.Context, query string) []string {
	contexts, err := p.retriever.Retrieve(ctx, query)
	if err == nil {
		return contexts
	}
	log.Printf("[rag] retrieval failed, retrying once: %v", err)

	contexts, err = p.retriever.Retrieve(ctx, query)
	if err != nil {
		log.Printf("[rag] retrieval failed again, answering without context: %v", err)
		return nil
	}
	return contexts
}

// Respond generates a direct reply without retrieval, used for
// conversational intents.
func (p *Pipeline) Respond(ctx context.Context, system, question string, history []Exchange) (string, error) {
	answer, err := p.generator.Generate(ctx, system, history, question)
	if err != nil {
		return "", apperr.Upstream(err, "reply generation failed")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", apperr.Upstream(nil, "model returned an empty reply")
	}
	return answer, nil
}
