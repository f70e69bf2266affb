package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"glamvoice/internal/apperr"
	"glamvoice/internal/config"
	"glamvoice/internal/intent"
	"glamvoice/internal/model"
	"glamvoice/internal/rag"
)

// turnStore is the chat-history persistence the service needs.
type turnStore interface {
	Append(turn *model.ChatTurn) error
	Recent(sessionID string, limit int) ([]model.ChatTurn, error)
}

// historyCache is the Redis window cache, optional.
type historyCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.ChatTurn, bool, error)
	SetHistory(ctx context.Context, sessionID string, turns []model.ChatTurn) error
	DeleteHistory(ctx context.Context, sessionID string) error
	MarkDirty(ctx context.Context, sessionID string) error
	IsDirty(ctx context.Context, sessionID string) (bool, error)
}

// AnswerPipeline is the retrieval chain bound to one generation model.
type AnswerPipeline interface {
	Answer(ctx context.Context, question string, history []rag.Exchange) (rag.Result, error)
	Respond(ctx context.Context, system, question string, history []rag.Exchange) (string, error)
}

// PipelineBuilder returns a factory that binds the retrieval chain to the
// generation model requested for one turn.
func PipelineBuilder(reformulator rag.Reformulator, retriever rag.Retriever, generator *rag.LLMGenerator) func(model string) AnswerPipeline {
	return func(m string) AnswerPipeline {
		gen := generator
		if m != generator.Model() {
			gen = generator.WithModel(m)
		}
		return rag.NewPipeline(reformulator, retriever, gen)
	}
}

// usagePublisher emits audit events, optional and best-effort.
type usagePublisher interface {
	Publish(ctx context.Context, record model.UsageRecord) error
}

// ChatRequest is one user message. SessionID empty means a new session.
// Model empty means the configured default.
type ChatRequest struct {
	SessionID string
	Question  string
	Model     string
}

// ChatResult is the reply plus the session the turn was recorded under.
type ChatResult struct {
	SessionID string
	Answer    string
	Intent    intent.Intent
	Mode      rag.Mode
}

// ChatService runs one conversational turn: session resolution, history
// loading, intent routing, the retrieval chain, and synchronous persistence
// of the turn so the next request sees it.
type ChatService struct {
	turns        turnStore
	cache        historyCache
	detector     intent.Detector
	usage        usagePublisher
	pipelineFor  func(model string) AnswerPipeline
	defaultModel string
	historyLimit int
}

func NewChatService(
	turns turnStore,
	cache historyCache,
	detector intent.Detector,
	usage usagePublisher,
	pipelineFor func(model string) AnswerPipeline,
	defaultModel string,
	historyLimit int,
) *ChatService {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &ChatService{
		turns:        turns,
		cache:        cache,
		detector:     detector,
		usage:        usage,
		pipelineFor:  pipelineFor,
		defaultModel: defaultModel,
		historyLimit: historyLimit,
	}
}

func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperr.Validation("question must not be empty")
	}

	chatModel := s.defaultModel
	if m := strings.TrimSpace(req.Model); m != "" {
		if !config.IsGenerationModel(m) {
			return nil, apperr.Validation("unknown model %q", m)
		}
		chatModel = m
	}

	sessionID := strings.TrimSpace(req.SessionID)
	newSession := sessionID == ""
	if newSession {
		sessionID = uuid.NewString()
	}

	var history []rag.Exchange
	if !newSession {
		turns, err := s.recentTurns(ctx, sessionID)
		if err != nil {
			return nil, apperr.Upstream(err, "load chat history failed")
		}
		history = toExchanges(turns)
	}

	detected := s.detectIntent(ctx, question)
	pipeline := s.pipelineFor(chatModel)

	var answer string
	var mode rag.Mode
	if prompt, conversational := rag.PromptForIntent(detected); conversational {
		reply, err := pipeline.Respond(ctx, prompt, question, history)
		if err != nil {
			return nil, err
		}
		answer = reply
		mode = rag.Standalone
	} else {
		result, err := pipeline.Answer(ctx, question, history)
		if err != nil {
			return nil, err
		}
		answer = result.Answer
		mode = result.Mode
	}

	turn := &model.ChatTurn{
		SessionID: sessionID,
		UserQuery: question,
		Response:  answer,
		Model:     chatModel,
	}
	if err := s.turns.Append(turn); err != nil {
		return nil, apperr.Upstream(err, "save chat turn failed")
	}
	s.invalidateHistory(ctx, sessionID)
	s.publishUsage(ctx, sessionID, chatModel, detected, question, answer)

	return &ChatResult{
		SessionID: sessionID,
		Answer:    answer,
		Intent:    detected,
		Mode:      mode,
	}, nil
}

// recentTurns serves the history window from Redis when it is fresh,
// falling back to MySQL and re-priming the cache.
func (s *ChatService) recentTurns(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx, sessionID)
		if err != nil {
			log.Printf("[chat] dirty check failed, skipping cache: %v", err)
		} else if !dirty {
			if turns, ok, err := s.cache.GetHistory(ctx, sessionID); err != nil {
				log.Printf("[chat] history cache read failed: %v", err)
			} else if ok {
				return turns, nil
			}
		}
	}

	turns, err := s.turns.Recent(sessionID, s.historyLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetHistory(ctx, sessionID, turns); err != nil {
			log.Printf("[chat] history cache write failed: %v", err)
		}
	}
	return turns, nil
}

// detectIntent classifies the question; any failure degrades to Question so
// the message still goes through retrieval.
func (s *ChatService) detectIntent(ctx context.Context, question string) intent.Intent {
	if s.detector == nil {
		return intent.Question
	}
	detected, err := s.detector.Detect(ctx, question)
	if err != nil {
		log.Printf("[chat] intent detection failed, treating as question: %v", err)
		return intent.Question
	}
	return detected
}

func (s *ChatService) invalidateHistory(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkDirty(ctx, sessionID); err != nil {
		log.Printf("[chat] mark history dirty failed: %v", err)
	}
	if err := s.cache.DeleteHistory(ctx, sessionID); err != nil {
		log.Printf("[chat] drop cached history failed: %v", err)
	}
}

// publishUsage emits a fire-and-forget audit event; chat never fails on it.
func (s *ChatService) publishUsage(ctx context.Context, sessionID, chatModel string, detected intent.Intent, question, answer string) {
	if s.usage == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	record := model.UsageRecord{
		SessionID:     sessionID,
		Model:         chatModel,
		Intent:        string(detected),
		QuestionChars: len([]rune(question)),
		ResponseChars: len([]rune(answer)),
	}
	if err := s.usage.Publish(pubCtx, record); err != nil {
		log.Printf("[chat] usage publish failed: %v", err)
	}
}

func toExchanges(turns []model.ChatTurn) []rag.Exchange {
	exchanges := make([]rag.Exchange, len(turns))
	for i, t := range turns {
		exchanges[i] = rag.Exchange{Question: t.UserQuery, Answer: t.Response}
	}
	return exchanges
}
