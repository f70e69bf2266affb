package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"glamvoice/internal/apperr"
	"glamvoice/internal/intent"
	"glamvoice/internal/model"
	"glamvoice/internal/rag"
	"glamvoice/internal/repository"
)

type fakeCache struct {
	store map[string][]model.ChatTurn
	dirty map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]model.ChatTurn{}, dirty: map[string]bool{}}
}

func (f *fakeCache) GetHistory(_ context.Context, sessionID string) ([]model.ChatTurn, bool, error) {
	turns, ok := f.store[sessionID]
	return turns, ok, nil
}

func (f *fakeCache) SetHistory(_ context.Context, sessionID string, turns []model.ChatTurn) error {
	f.store[sessionID] = turns
	return nil
}

func (f *fakeCache) DeleteHistory(_ context.Context, sessionID string) error {
	delete(f.store, sessionID)
	return nil
}

func (f *fakeCache) MarkDirty(_ context.Context, sessionID string) error {
	f.dirty[sessionID] = true
	return nil
}

func (f *fakeCache) IsDirty(_ context.Context, sessionID string) (bool, error) {
	return f.dirty[sessionID], nil
}

type fakePipeline struct {
	answer      string
	answerErr   error
	reply       string
	lastHistory []rag.Exchange
	lastSystem  string
	answerCalls int
	replyCalls  int
}

func (f *fakePipeline) Answer(_ context.Context, _ string, history []rag.Exchange) (rag.Result, error) {
	f.answerCalls++
	f.lastHistory = history
	if f.answerErr != nil {
		return rag.Result{}, f.answerErr
	}
	return rag.Result{Answer: f.answer, Mode: rag.Standalone}, nil
}

func (f *fakePipeline) Respond(_ context.Context, system, _ string, history []rag.Exchange) (string, error) {
	f.replyCalls++
	f.lastSystem = system
	f.lastHistory = history
	return f.reply, nil
}

type fakeDetector struct {
	result intent.Intent
	err    error
}

func (f *fakeDetector) Detect(_ context.Context, _ string) (intent.Intent, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeUsagePublisher struct {
	records []model.UsageRecord
	err     error
}

func (f *fakeUsagePublisher) Publish(_ context.Context, record model.UsageRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type chatFixture struct {
	svc      *ChatService
	turns    *repository.ChatTurnRepository
	cache    *fakeCache
	pipeline *fakePipeline
	usage    *fakeUsagePublisher
	models   []string
}

func newChatFixture(t *testing.T, detector intent.Detector) *chatFixture {
	t.Helper()
	f := &chatFixture{
		turns:    repository.NewChatTurnRepository(newTestDB(t)),
		cache:    newFakeCache(),
		pipeline: &fakePipeline{answer: "the answer", reply: "the reply"},
		usage:    &fakeUsagePublisher{},
	}
	f.svc = NewChatService(
		f.turns,
		f.cache,
		detector,
		f.usage,
		func(m string) AnswerPipeline {
			f.models = append(f.models, m)
			return f.pipeline
		},
		"gemini-2.0-flash",
		10,
	)
	return f
}

func TestChatMintsSessionForFirstMessage(t *testing.T) {
	f := newChatFixture(t, nil)

	result, err := f.svc.Chat(context.Background(), ChatRequest{Question: "làm sao thoa son?"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "the answer", result.Answer)
	assert.Empty(t, f.pipeline.lastHistory, "a minted session has no history")

	turns, err := f.turns.Recent(result.SessionID, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(turns))
	assert.Equal(t, "làm sao thoa son?", turns[0].UserQuery)
	assert.Equal(t, "the answer", turns[0].Response)
}

func TestChatRoundTripHistoryVisibleOnNextTurn(t *testing.T) {
	f := newChatFixture(t, nil)

	first, err := f.svc.Chat(context.Background(), ChatRequest{Question: "kem nền là gì?"})
	assert.NoError(t, err)

	_, err = f.svc.Chat(context.Background(), ChatRequest{
		SessionID: first.SessionID,
		Question:  "thoa nó thế nào?",
	})
	assert.NoError(t, err)

	assert.Equal(t, 1, len(f.pipeline.lastHistory))
	assert.Equal(t, "kem nền là gì?", f.pipeline.lastHistory[0].Question)
	assert.Equal(t, "the answer", f.pipeline.lastHistory[0].Answer)
}

func TestChatEmptyQuestionIsValidation(t *testing.T) {
	f := newChatFixture(t, nil)

	_, err := f.svc.Chat(context.Background(), ChatRequest{Question: "   "})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestChatUnknownModelIsValidation(t *testing.T) {
	f := newChatFixture(t, nil)

	_, err := f.svc.Chat(context.Background(), ChatRequest{
		Question: "q",
		Model:    "gpt-99-ultra",
	})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, f.models, "no pipeline should be built for a rejected model")
}

func TestChatModelOverride(t *testing.T) {
	f := newChatFixture(t, nil)

	result, err := f.svc.Chat(context.Background(), ChatRequest{
		Question: "q",
		Model:    "meta-llama/Llama-3.1-8B-Instruct",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"meta-llama/Llama-3.1-8B-Instruct"}, f.models)

	turns, _ := f.turns.Recent(result.SessionID, 10)
	assert.Equal(t, "meta-llama/Llama-3.1-8B-Instruct", turns[0].Model)
}

func TestChatConversationalIntentSkipsRetrieval(t *testing.T) {
	f := newChatFixture(t, &fakeDetector{result: intent.Greeting})

	result, err := f.svc.Chat(context.Background(), ChatRequest{Question: "xin chào"})

	assert.NoError(t, err)
	assert.Equal(t, intent.Greeting, result.Intent)
	assert.Equal(t, "the reply", result.Answer)
	assert.Equal(t, 1, f.pipeline.replyCalls)
	assert.Equal(t, 0, f.pipeline.answerCalls)
	assert.NotEmpty(t, f.pipeline.lastSystem)
}

func TestChatDetectorFailureFallsBackToQuestion(t *testing.T) {
	f := newChatFixture(t, &fakeDetector{err: errors.New("onnx missing")})

	result, err := f.svc.Chat(context.Background(), ChatRequest{Question: "son môi nào bền?"})

	assert.NoError(t, err)
	assert.Equal(t, intent.Question, result.Intent)
	assert.Equal(t, 1, f.pipeline.answerCalls)
}

func TestChatPipelineFailureDoesNotPersistTurn(t *testing.T) {
	f := newChatFixture(t, nil)
	f.pipeline.answerErr = apperr.Upstream(errors.New("overloaded"), "answer generation failed")

	result, err := f.svc.Chat(context.Background(), ChatRequest{SessionID: "s-1", Question: "q"})

	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindUpstream))
	turns, _ := f.turns.Recent("s-1", 10)
	assert.Empty(t, turns)
}

func TestChatInvalidatesCachedHistoryAfterTurn(t *testing.T) {
	f := newChatFixture(t, nil)
	f.cache.store["s-2"] = []model.ChatTurn{{SessionID: "s-2", UserQuery: "old", Response: "old"}}

	_, err := f.svc.Chat(context.Background(), ChatRequest{SessionID: "s-2", Question: "q"})

	assert.NoError(t, err)
	_, cached := f.cache.store["s-2"]
	assert.False(t, cached)
	assert.True(t, f.cache.dirty["s-2"])
}

func TestChatServesHistoryFromCacheWhenClean(t *testing.T) {
	f := newChatFixture(t, nil)
	f.cache.store["s-3"] = []model.ChatTurn{{SessionID: "s-3", UserQuery: "cached q", Response: "cached a"}}

	_, err := f.svc.Chat(context.Background(), ChatRequest{SessionID: "s-3", Question: "next"})

	assert.NoError(t, err)
	assert.Equal(t, 1, len(f.pipeline.lastHistory))
	assert.Equal(t, "cached q", f.pipeline.lastHistory[0].Question)
}

func TestChatPublishesUsageRecord(t *testing.T) {
	f := newChatFixture(t, nil)

	result, err := f.svc.Chat(context.Background(), ChatRequest{Question: "hỏi về má hồng"})

	assert.NoError(t, err)
	assert.Equal(t, 1, len(f.usage.records))
	record := f.usage.records[0]
	assert.Equal(t, result.SessionID, record.SessionID)
	assert.Equal(t, "gemini-2.0-flash", record.Model)
	assert.Equal(t, string(intent.Question), record.Intent)
	assert.Equal(t, len([]rune("hỏi về má hồng")), record.QuestionChars)
}

func TestChatUsagePublishFailureIsSwallowed(t *testing.T) {
	f := newChatFixture(t, nil)
	f.usage.err = errors.New("broker down")

	_, err := f.svc.Chat(context.Background(), ChatRequest{Question: "q"})

	assert.NoError(t, err)
}
